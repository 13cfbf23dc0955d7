package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/rotas-rs/service-tripcost/internal/domain/trip"
	"github.com/rotas-rs/service-tripcost/internal/geo"
)

// Provider applies the failure policy on top of the routing and geocoding services.
type Provider struct {
	router   RoutingService
	geocoder GeocodingService
	logger   *zap.Logger
}

// NewProvider creates a new Provider.
func NewProvider(router RoutingService, geocoder GeocodingService, logger *zap.Logger) *Provider {
	return &Provider{router: router, geocoder: geocoder, logger: logger}
}

// ComputeRoute returns the road route between two points. Any failure is reported
// as ErrNoRouteFound, since distance and duration have no straight-line substitute.
func (p *Provider) ComputeRoute(ctx context.Context, from, to geo.Coordinate) (*trip.Route, error) {
	res, err := p.router.FetchRoute(ctx, Request{From: from, To: to, Steps: true})
	if err != nil {
		p.logger.Warn("route computation failed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrNoRouteFound, err)
	}

	return &trip.Route{
		Coordinates: res.Coordinates,
		DistanceKm:  res.DistanceMeters / 1000,
		DurationMin: res.DurationSeconds / 60,
	}, nil
}

// ComputeSegment returns the road geometry between two points, or exactly [a, b]
// when the routing service fails. It never fails itself.
func (p *Provider) ComputeSegment(ctx context.Context, a, b geo.Coordinate) orb.LineString {
	res, err := p.router.FetchRoute(ctx, Request{From: a, To: b})
	if err != nil {
		p.logger.Debug("segment routing failed, using straight line",
			zap.String("from", a.String()),
			zap.String("to", b.String()),
			zap.Error(err),
		)
		return orb.LineString{a.Point(), b.Point()}
	}
	return res.Coordinates
}

// ResolveAddress geocodes free text. Every failure, network or empty result, is
// reported as ErrAddressNotFound with the cause logged.
func (p *Provider) ResolveAddress(ctx context.Context, text string) (geo.Coordinate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return geo.Coordinate{}, ErrAddressNotFound
	}

	coord, err := p.geocoder.Geocode(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrAddressNotFound) {
			p.logger.Warn("geocoding failed", zap.String("query", text), zap.Error(err))
			return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrAddressNotFound, err)
		}
		return geo.Coordinate{}, err
	}
	return coord, nil
}
