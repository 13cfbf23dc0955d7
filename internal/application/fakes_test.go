package application

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/domain/trip"
	"github.com/rotas-rs/service-tripcost/internal/feed"
	"github.com/rotas-rs/service-tripcost/internal/geo"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
)

type fakeSource struct {
	records []feed.Record
	err     error
}

func (f *fakeSource) Fetch(context.Context) ([]feed.Record, error) {
	return f.records, f.err
}

type fakeSnapshots struct {
	saved   []poi.POI
	loaded  []poi.POI
	saveErr error
	loadErr error
}

func (f *fakeSnapshots) ReplaceSnapshot(_ context.Context, pois []poi.POI) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = pois
	return nil
}

func (f *fakeSnapshots) LoadSnapshot(context.Context) ([]poi.POI, error) {
	return f.loaded, f.loadErr
}

type straightRouter struct{}

func (straightRouter) ComputeSegment(_ context.Context, a, b geo.Coordinate) orb.LineString {
	return orb.LineString{a.Point(), b.Point()}
}

type countingRouter struct {
	calls atomic.Int64
}

func (r *countingRouter) ComputeSegment(_ context.Context, a, b geo.Coordinate) orb.LineString {
	r.calls.Add(1)
	return orb.LineString{a.Point(), b.Point()}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]kafka.CloudEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(map[string][]kafka.CloudEvent)}
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, evt kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[topic] = append(p.events[topic], evt)
	return nil
}

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[topic])
}

type fakeProvider struct {
	coords   map[string]geo.Coordinate
	route    *trip.Route
	routeErr error
	// slowFrom blocks ComputeRoute from this point: entered is closed on arrival,
	// then the call waits for release.
	slowFrom *geo.Coordinate
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeProvider) ResolveAddress(_ context.Context, text string) (geo.Coordinate, error) {
	c, ok := f.coords[text]
	if !ok {
		return geo.Coordinate{}, errAddress
	}
	return c, nil
}

func (f *fakeProvider) ComputeRoute(ctx context.Context, from, _ geo.Coordinate) (*trip.Route, error) {
	if f.slowFrom != nil && *f.slowFrom == from {
		close(f.entered)
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	r := *f.route
	return &r, nil
}
