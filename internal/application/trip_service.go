package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rotas-rs/service-tripcost/internal/contracts"
	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/domain/trip"
	"github.com/rotas-rs/service-tripcost/internal/geo"
	"github.com/rotas-rs/service-tripcost/internal/platform/apperr"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
	"github.com/rotas-rs/service-tripcost/internal/routing"
)

// DefaultSession scopes estimates from callers that send no session id.
const DefaultSession = "default"

// RouteProvider resolves addresses and computes routes.
type RouteProvider interface {
	ResolveAddress(ctx context.Context, text string) (geo.Coordinate, error)
	ComputeRoute(ctx context.Context, from, to geo.Coordinate) (*trip.Route, error)
}

// TollSource exposes the current toll set.
type TollSource interface {
	Tolls() []*poi.Toll
}

// EstimateRequest holds the user input for a trip estimate.
type EstimateRequest struct {
	Origin               string  `json:"origin" binding:"required"`
	Destination          string  `json:"destination" binding:"required"`
	Axles                int     `json:"axles" binding:"min=0,max=20"`
	AvoidTolls           bool    `json:"avoid_tolls"`
	FuelPrice            float64 `json:"fuel_price"`
	ConsumptionKmPerUnit float64 `json:"consumption_km_per_unit"`
}

// EstimateDTO is the response representation of an estimate.
type EstimateDTO struct {
	*trip.Estimate
	// Superseded is set when a newer request for the same session started before this one finished.
	Superseded bool `json:"superseded"`
}

// TripService orchestrates trip estimates.
type TripService struct {
	provider  RouteProvider
	tolls     TollSource
	costs     trip.CostStrategy
	display   *trip.Display[*trip.Estimate]
	publisher kafka.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewTripService creates a new TripService.
func NewTripService(
	provider RouteProvider,
	tolls TollSource,
	costs trip.CostStrategy,
	display *trip.Display[*trip.Estimate],
	publisher kafka.Publisher,
	logger *zap.Logger,
) *TripService {
	return &TripService{
		provider:  provider,
		tolls:     tolls,
		costs:     costs,
		display:   display,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Estimate geocodes both ends, routes between them, charges the tolls on the way and
// adds fuel. The result becomes the session's current estimate unless a newer request
// for the same session started meanwhile.
func (s *TripService) Estimate(ctx context.Context, session string, req EstimateRequest) (*EstimateDTO, error) {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" || req.Destination == "" {
		return nil, apperr.NewValidationError("origin and destination are required")
	}
	if req.Axles < 0 {
		return nil, apperr.NewValidationError("axles must not be negative")
	}
	if session == "" {
		session = DefaultSession
	}

	token := s.display.Begin(session)

	origin, destination, err := s.resolveEnds(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	route, err := s.provider.ComputeRoute(ctx, origin, destination)
	if err != nil {
		if errors.Is(err, routing.ErrNoRouteFound) {
			return nil, apperr.NewUnavailableError("no route found between origin and destination", err)
		}
		return nil, apperr.NewInternalError("failed to compute route", err)
	}

	tolls := trip.MatchTolls(route.Coordinates, req.Axles, s.tolls.Tolls(), req.AvoidTolls)
	cost := s.costs.Calculate(trip.CostParams{
		DistanceKm:           route.DistanceKm,
		Tolls:                tolls,
		FuelPricePerUnit:     req.FuelPrice,
		ConsumptionKmPerUnit: req.ConsumptionKmPerUnit,
	})

	estimate := &trip.Estimate{
		ID:              uuid.New(),
		OriginText:      req.Origin,
		DestinationText: req.Destination,
		Origin:          origin,
		Destination:     destination,
		Axles:           req.Axles,
		AvoidTolls:      req.AvoidTolls,
		Route:           *route,
		Tolls:           tolls,
		Cost:            cost,
		CreatedAt:       s.now().UTC(),
	}

	superseded := !s.display.Commit(token, estimate)
	if superseded {
		s.logger.Info("estimate superseded by a newer request",
			zap.String("session", session),
			zap.String("estimate_id", estimate.ID.String()),
		)
	}

	s.logger.Info("trip estimated",
		zap.String("estimate_id", estimate.ID.String()),
		zap.String("session", session),
		zap.Float64("distance_km", route.DistanceKm),
		zap.Int("tolls_charged", len(tolls.Encountered)),
		zap.Float64("grand_total", cost.GrandTotal),
	)

	s.publishEstimated(ctx, session, estimate, superseded)

	return &EstimateDTO{Estimate: estimate, Superseded: superseded}, nil
}

// Current returns the session's displayed estimate.
func (s *TripService) Current(session string) (*EstimateDTO, error) {
	if session == "" {
		session = DefaultSession
	}
	estimate, ok := s.display.Current(session)
	if !ok {
		return nil, apperr.NewNotFoundError("estimate", session)
	}
	return &EstimateDTO{Estimate: estimate}, nil
}

// resolveEnds geocodes origin and destination concurrently.
func (s *TripService) resolveEnds(ctx context.Context, originText, destinationText string) (geo.Coordinate, geo.Coordinate, error) {
	var origin, destination geo.Coordinate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.resolve(gctx, originText)
		origin = c
		return err
	})
	g.Go(func() error {
		c, err := s.resolve(gctx, destinationText)
		destination = c
		return err
	})
	if err := g.Wait(); err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	return origin, destination, nil
}

func (s *TripService) resolve(ctx context.Context, text string) (geo.Coordinate, error) {
	c, err := s.provider.ResolveAddress(ctx, text)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, routing.ErrAddressNotFound) {
		return geo.Coordinate{}, &apperr.AppError{
			Kind:    apperr.KindNotFound,
			Message: fmt.Sprintf("could not locate address %q", text),
		}
	}
	return geo.Coordinate{}, apperr.NewInternalError("failed to resolve address", err)
}

func (s *TripService) publishEstimated(ctx context.Context, session string, e *trip.Estimate, superseded bool) {
	evt, err := kafka.NewCloudEvent(contracts.Source, contracts.TripEstimated, contracts.TripEstimatedEvent{
		EstimateID:   e.ID,
		SessionID:    session,
		Origin:       e.OriginText,
		Destination:  e.DestinationText,
		Axles:        e.Axles,
		AvoidTolls:   e.AvoidTolls,
		DistanceKm:   e.Route.DistanceKm,
		DurationMin:  e.Route.DurationMin,
		TollsCharged: len(e.Tolls.Encountered),
		TollTotal:    e.Cost.TollTotal,
		FuelTotal:    e.Cost.FuelTotal,
		GrandTotal:   e.Cost.GrandTotal,
		Superseded:   superseded,
		EstimatedAt:  e.CreatedAt,
	})
	if err != nil {
		s.logger.Error("failed to create trip estimated event", zap.Error(err))
		return
	}
	if err := s.publisher.PublishEvent(ctx, contracts.TopicTripEvents, evt); err != nil {
		s.logger.Error("failed to publish trip estimated event", zap.Error(err))
	}
}
