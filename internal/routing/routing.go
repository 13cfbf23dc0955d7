package routing

import (
	"context"
	"errors"

	"github.com/paulmach/orb"

	"github.com/rotas-rs/service-tripcost/internal/geo"
)

var (
	// ErrNoRoute is returned by a RoutingService whose response carries no usable route.
	ErrNoRoute = errors.New("routing service returned no route")
	// ErrNoRouteFound is returned by Provider.ComputeRoute on any routing failure.
	ErrNoRouteFound = errors.New("no route found")
	// ErrAddressNotFound is returned when an address cannot be located.
	ErrAddressNotFound = errors.New("could not locate address")
)

// Request asks for a path between two points.
type Request struct {
	From geo.Coordinate
	To   geo.Coordinate
	// Steps requests turn-by-turn steps; only full routes need them.
	Steps bool
}

// Result is the first route of a routing response.
type Result struct {
	Coordinates     orb.LineString
	DistanceMeters  float64
	DurationSeconds float64
}

// RoutingService computes a road path between two points.
type RoutingService interface {
	FetchRoute(ctx context.Context, req Request) (*Result, error)
}

// GeocodingService resolves free text into a coordinate.
type GeocodingService interface {
	Geocode(ctx context.Context, query string) (geo.Coordinate, error)
}
