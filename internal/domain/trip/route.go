package trip

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/rotas-rs/service-tripcost/internal/geo"
)

// Route is a computed path between two points.
// Coordinates follow the routing-service convention: each point is (lon, lat).
type Route struct {
	Coordinates orb.LineString `json:"coordinates"`
	DistanceKm  float64        `json:"distance_km"`
	DurationMin float64        `json:"duration_min"`
}

// Estimate is the full result of one trip cost request.
type Estimate struct {
	ID              uuid.UUID      `json:"id"`
	OriginText      string         `json:"origin_text"`
	DestinationText string         `json:"destination_text"`
	Origin          geo.Coordinate `json:"origin"`
	Destination     geo.Coordinate `json:"destination"`
	Axles           int            `json:"axles"`
	AvoidTolls      bool           `json:"avoid_tolls"`
	Route           Route          `json:"route"`
	Tolls           TollResult     `json:"tolls"`
	Cost            CostBreakdown  `json:"cost"`
	CreatedAt       time.Time      `json:"created_at"`
}
