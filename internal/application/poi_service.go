package application

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rotas-rs/service-tripcost/internal/contracts"
	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/feed"
	"github.com/rotas-rs/service-tripcost/internal/geo"
	"github.com/rotas-rs/service-tripcost/internal/platform/apperr"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
)

// FeedSource downloads raw POI records.
type FeedSource interface {
	Fetch(ctx context.Context) ([]feed.Record, error)
}

// SegmentRouter resolves the road geometry between two points, falling back to a straight line.
type SegmentRouter interface {
	ComputeSegment(ctx context.Context, a, b geo.Coordinate) orb.LineString
}

// POIDTO is the response representation of a POI. Absent tariffs are omitted.
type POIDTO struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Highway         string          `json:"highway"`
	Description     string          `json:"description"`
	Point           *geo.Coordinate `json:"point,omitempty"`
	SegmentStart    *geo.Coordinate `json:"segment_start,omitempty"`
	SegmentEnd      *geo.Coordinate `json:"segment_end,omitempty"`
	BaseTariff      *float64        `json:"base_tariff,omitempty"`
	ExtraAxleTariff *float64        `json:"extra_axle_tariff,omitempty"`
	Impact          string          `json:"impact,omitempty"`
	EstimatedEnd    string          `json:"estimated_end,omitempty"`
}

// RefreshResult summarizes one feed load.
type RefreshResult struct {
	Feed  feed.Stats `json:"feed"`
	Store poi.Stats  `json:"store"`
}

// POIService owns the POI store and keeps it in sync with the feed.
type POIService struct {
	store     *poi.Store
	source    FeedSource
	snapshots poi.SnapshotRepository
	router    SegmentRouter
	publisher kafka.Publisher
	logger    *zap.Logger

	// refreshMu serializes feed loads so two refreshes never interleave their store swaps.
	refreshMu sync.Mutex
	// layer is the map layer of the current store generation, rebuilt on every load.
	layer atomic.Pointer[geojson.FeatureCollection]
}

// NewPOIService creates a new POIService. snapshots may be nil when persistence is disabled.
func NewPOIService(
	store *poi.Store,
	source FeedSource,
	snapshots poi.SnapshotRepository,
	router SegmentRouter,
	publisher kafka.Publisher,
	logger *zap.Logger,
) *POIService {
	return &POIService{
		store:     store,
		source:    source,
		snapshots: snapshots,
		router:    router,
		publisher: publisher,
		logger:    logger,
	}
}

// Refresh loads the feed and replaces the store. When the feed is unavailable the
// store and the snapshot keep their previous contents.
func (s *POIService) Refresh(ctx context.Context) (*RefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("failed to load poi feed, keeping previous data", zap.Error(err))
		return nil, apperr.NewUnavailableError("poi feed unavailable", err)
	}

	pois, stats := feed.Normalize(records)
	s.install(ctx, pois)
	storeStats := s.store.Stats()

	s.logger.Info("poi feed loaded",
		zap.Int("records", stats.Records),
		zap.Int("accepted", stats.Accepted),
		zap.Int("dropped", stats.Dropped),
		zap.Int("unknown_category", stats.UnknownCategory),
		zap.Int("tolls", storeStats.Tolls),
		zap.Int("roadworks", storeStats.Roadworks),
		zap.Int("duplicated_lanes", storeStats.DuplicatedLanes),
	)

	if s.snapshots != nil {
		if err := s.snapshots.ReplaceSnapshot(ctx, pois); err != nil {
			s.logger.Error("failed to persist poi snapshot", zap.Error(err))
		}
	}

	s.publishRefreshed(ctx, stats, storeStats)

	return &RefreshResult{Feed: stats, Store: storeStats}, nil
}

// WarmFromSnapshot fills the store from the last persisted snapshot, if any.
func (s *POIService) WarmFromSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	pois, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return apperr.NewInternalError("failed to load poi snapshot", err)
	}
	if len(pois) == 0 {
		s.logger.Info("no poi snapshot to warm from")
		return nil
	}

	s.refreshMu.Lock()
	s.install(ctx, pois)
	s.refreshMu.Unlock()

	s.logger.Info("poi store warmed from snapshot", zap.Int("pois", len(pois)))
	return nil
}

// RunRefreshLoop reloads the feed every interval until ctx is cancelled.
func (s *POIService) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn("scheduled poi refresh failed", zap.Error(err))
			}
		}
	}
}

// Stats returns the current store summary.
func (s *POIService) Stats() poi.Stats {
	return s.store.Stats()
}

// List returns the POIs of one category, or all of them when category is empty.
func (s *POIService) List(category string) ([]POIDTO, error) {
	var pois []poi.POI
	if category == "" {
		pois = s.store.All()
	} else {
		c, err := poi.ParseCategory(category)
		if err != nil {
			return nil, apperr.NewValidationError(err.Error())
		}
		pois = s.store.ByCategory(c)
	}

	out := make([]POIDTO, 0, len(pois))
	for _, p := range pois {
		out = append(out, toPOIDTO(p))
	}
	return out, nil
}

// GeoJSON returns the map layer built when the current POIs were loaded.
func (s *POIService) GeoJSON() *geojson.FeatureCollection {
	if fc := s.layer.Load(); fc != nil {
		return fc
	}
	return geojson.NewFeatureCollection()
}

// install swaps the store to pois and rebuilds the map layer for them.
// Callers hold refreshMu.
func (s *POIService) install(ctx context.Context, pois []poi.POI) {
	s.store.ReplaceAll(pois)
	s.layer.Store(s.buildLayer(ctx, s.store.All()))
}

// buildLayer renders every POI as a feature. Roadworks and duplicated lanes with a
// drawable segment become LineStrings following the road where the router can
// resolve it; everything else is a Point.
func (s *POIService) buildLayer(ctx context.Context, pois []poi.POI) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, len(pois))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range pois {
		g.Go(func() error {
			features[i] = s.feature(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		if f != nil {
			fc.Append(f)
		}
	}
	return fc
}

func (s *POIService) feature(ctx context.Context, p poi.POI) *geojson.Feature {
	geom, ok := s.geometry(ctx, p)
	if !ok {
		return nil
	}
	f := geojson.NewFeature(geom)

	info := p.Details()
	if info.ID != "" {
		f.ID = info.ID
	}
	f.Properties["category"] = p.Category().String()
	f.Properties["id"] = info.ID
	f.Properties["name"] = info.Name
	f.Properties["highway"] = info.Highway
	f.Properties["description"] = info.Description

	switch v := p.(type) {
	case *poi.Toll:
		if t := finitePtr(v.BaseTariff); t != nil {
			f.Properties["base_tariff"] = *t
		}
		if t := finitePtr(v.ExtraAxleTariff); t != nil {
			f.Properties["extra_axle_tariff"] = *t
		}
	case *poi.Roadwork:
		f.Properties["impact"] = v.Impact
		f.Properties["estimated_end"] = v.EstimatedEnd
	}
	return f
}

func (s *POIService) geometry(ctx context.Context, p poi.POI) (orb.Geometry, bool) {
	loc := p.Location()

	switch p.(type) {
	case *poi.Roadwork, *poi.DuplicatedLane:
		if start, end, ok := loc.Segment(); ok {
			return s.router.ComputeSegment(ctx, start, end), true
		}
	case *poi.Toll:
		if loc.Point != nil {
			return loc.Point.Point(), true
		}
	}

	anchor, ok := loc.Anchor()
	if !ok {
		return nil, false
	}
	return anchor.Point(), true
}

func (s *POIService) publishRefreshed(ctx context.Context, stats feed.Stats, storeStats poi.Stats) {
	evt, err := kafka.NewCloudEvent(contracts.Source, contracts.POIFeedRefreshed, contracts.FeedRefreshedEvent{
		Records:         stats.Records,
		Accepted:        stats.Accepted,
		Dropped:         stats.Dropped,
		UnknownCategory: stats.UnknownCategory,
		Tolls:           storeStats.Tolls,
		Roadworks:       storeStats.Roadworks,
		DuplicatedLanes: storeStats.DuplicatedLanes,
		RefreshedAt:     storeStats.LoadedAt,
	})
	if err != nil {
		s.logger.Error("failed to create feed refreshed event", zap.Error(err))
		return
	}
	if err := s.publisher.PublishEvent(ctx, contracts.TopicPOIEvents, evt); err != nil {
		s.logger.Error("failed to publish feed refreshed event", zap.Error(err))
	}
}

func toPOIDTO(p poi.POI) POIDTO {
	info := p.Details()
	loc := p.Location()
	dto := POIDTO{
		ID:           info.ID,
		Category:     p.Category().String(),
		Name:         info.Name,
		Highway:      info.Highway,
		Description:  info.Description,
		Point:        loc.Point,
		SegmentStart: loc.SegmentStart,
		SegmentEnd:   loc.SegmentEnd,
	}
	switch v := p.(type) {
	case *poi.Toll:
		dto.BaseTariff = finitePtr(v.BaseTariff)
		dto.ExtraAxleTariff = finitePtr(v.ExtraAxleTariff)
	case *poi.Roadwork:
		dto.Impact = v.Impact
		dto.EstimatedEnd = v.EstimatedEnd
	}
	return dto
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
