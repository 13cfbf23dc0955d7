package trip

import "math"

// CostBreakdown is the money side of an estimate. Values are not rounded.
type CostBreakdown struct {
	TollTotal   float64 `json:"toll_total"`
	TollPerAxle float64 `json:"toll_per_axle"`
	FuelTotal   float64 `json:"fuel_total"`
	GrandTotal  float64 `json:"grand_total"`
}

// CostParams holds the inputs for cost aggregation.
type CostParams struct {
	DistanceKm           float64
	Tolls                TollResult
	FuelPricePerUnit     float64
	ConsumptionKmPerUnit float64
}

// CostStrategy defines how a trip's cost is put together.
type CostStrategy interface {
	Calculate(params CostParams) CostBreakdown
}

// StandardCostStrategy charges tolls as matched plus fuel proportional to distance.
type StandardCostStrategy struct{}

// NewStandardCostStrategy creates a new StandardCostStrategy.
func NewStandardCostStrategy() *StandardCostStrategy {
	return &StandardCostStrategy{}
}

// Calculate implements CostStrategy.
func (s *StandardCostStrategy) Calculate(params CostParams) CostBreakdown {
	return Aggregate(params.DistanceKm, params.Tolls, params.FuelPricePerUnit, params.ConsumptionKmPerUnit)
}

// Aggregate combines the toll result with a fuel estimate.
//
//   - Fuel: distanceKm / consumption * fuelPrice, only when both consumption and price are positive and finite
//   - Grand total: tolls + fuel
func Aggregate(distanceKm float64, tolls TollResult, fuelPricePerUnit, consumptionKmPerUnit float64) CostBreakdown {
	var fuel float64
	if positiveFinite(fuelPricePerUnit) && positiveFinite(consumptionKmPerUnit) {
		fuel = distanceKm / consumptionKmPerUnit * fuelPricePerUnit
	}

	return CostBreakdown{
		TollTotal:   tolls.Total,
		TollPerAxle: tolls.PerAxle,
		FuelTotal:   fuel,
		GrandTotal:  tolls.Total + fuel,
	}
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
