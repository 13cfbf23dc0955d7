package poi

import (
	"fmt"
	"math"

	"github.com/rotas-rs/service-tripcost/internal/geo"
)

// segmentEpsilonDeg is the minimum separation, in degrees, for a start/end pair to be drawn as a line.
const segmentEpsilonDeg = 0.0001

// POI is a toll, roadwork, or duplicated-lane feature.
// Implementations are *Toll, *Roadwork and *DuplicatedLane.
type POI interface {
	Category() Category
	Details() Info
	Location() Placement
}

// Info holds the display strings shared by every POI.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Highway     string `json:"highway"`
	Description string `json:"description"`
}

// Placement holds the optional geometry of a POI.
// Point comes from LAT/LON; the segment ends from START_LAT/START_LON and END_LAT/END_LON.
type Placement struct {
	Point        *geo.Coordinate `json:"point,omitempty"`
	SegmentStart *geo.Coordinate `json:"segment_start,omitempty"`
	SegmentEnd   *geo.Coordinate `json:"segment_end,omitempty"`
}

// IsPlaceable reports whether the POI has at least a point or a segment start.
func (p Placement) IsPlaceable() bool {
	return p.Point != nil || p.SegmentStart != nil
}

// Segment returns the start and end of a drawable line segment.
// Ends closer than 0.0001 degrees on both axes do not form a segment.
func (p Placement) Segment() (geo.Coordinate, geo.Coordinate, bool) {
	if p.SegmentStart == nil || p.SegmentEnd == nil {
		return geo.Coordinate{}, geo.Coordinate{}, false
	}
	s, e := *p.SegmentStart, *p.SegmentEnd
	if math.Abs(s.Lat-e.Lat) <= segmentEpsilonDeg && math.Abs(s.Lon-e.Lon) <= segmentEpsilonDeg {
		return geo.Coordinate{}, geo.Coordinate{}, false
	}
	return s, e, true
}

// Anchor returns where a marker for the POI goes: the segment start if it has a
// drawable segment, otherwise the point, otherwise the segment start.
func (p Placement) Anchor() (geo.Coordinate, bool) {
	if s, _, ok := p.Segment(); ok {
		return s, true
	}
	if p.Point != nil {
		return *p.Point, true
	}
	if p.SegmentStart != nil {
		return *p.SegmentStart, true
	}
	return geo.Coordinate{}, false
}

// Toll is a toll plaza with per-axle tariffs.
// BaseTariff is the two-axle rate. Either tariff may be NaN when the feed had no usable value.
type Toll struct {
	Info
	Placement
	BaseTariff      float64
	ExtraAxleTariff float64
}

// Category implements POI.
func (t *Toll) Category() Category { return CategoryToll }

// Details implements POI.
func (t *Toll) Details() Info { return t.Info }

// Location implements POI.
func (t *Toll) Location() Placement { return t.Placement }

// Chargeable reports whether the toll can take part in cost calculation:
// it needs a point and both tariffs.
func (t *Toll) Chargeable() bool {
	return t.Point != nil && isFinite(t.BaseTariff) && isFinite(t.ExtraAxleTariff)
}

// CostFor returns the toll cost for a vehicle with the given number of axles.
// Axles beyond the second are charged at ExtraAxleTariff each.
func (t *Toll) CostFor(axles int) float64 {
	extra := axles - 2
	if extra < 0 {
		extra = 0
	}
	return t.BaseTariff + t.ExtraAxleTariff*float64(extra)
}

// DedupKey identifies the toll when counting it at most once per route.
// Tolls without an id are keyed by their coordinates.
func (t *Toll) DedupKey() string {
	if t.ID != "" {
		return "id:" + t.ID
	}
	if t.Point != nil {
		return fmt.Sprintf("at:%.6f,%.6f", t.Point.Lat, t.Point.Lon)
	}
	return "name:" + t.Name
}

// Roadwork is an ongoing construction site, usually spanning a road segment.
type Roadwork struct {
	Info
	Placement
	Impact       string
	EstimatedEnd string
}

// Category implements POI.
func (r *Roadwork) Category() Category { return CategoryRoadwork }

// Details implements POI.
func (r *Roadwork) Details() Info { return r.Info }

// Location implements POI.
func (r *Roadwork) Location() Placement { return r.Placement }

// DuplicatedLane is a road segment that has been widened to dual carriageway.
type DuplicatedLane struct {
	Info
	Placement
}

// Category implements POI.
func (d *DuplicatedLane) Category() Category { return CategoryDuplicatedLane }

// Details implements POI.
func (d *DuplicatedLane) Details() Info { return d.Info }

// Location implements POI.
func (d *DuplicatedLane) Location() Placement { return d.Placement }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
