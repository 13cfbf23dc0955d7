package trip

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/geo"
)

// DetectionRadiusKm is how close a route point must come to a toll for the toll to be charged.
const DetectionRadiusKm = 0.5

// pruneSlack widens the candidate box so degree conversions never drop a toll the exact scan would charge.
const pruneSlack = 1.1

// TollHit is a toll charged on a route.
type TollHit struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Highway string         `json:"highway"`
	Point   geo.Coordinate `json:"point"`
	Cost    float64        `json:"cost"`
}

// TollResult is the toll total for one route and vehicle.
type TollResult struct {
	Total       float64   `json:"total"`
	PerAxle     float64   `json:"per_axle"`
	Encountered []TollHit `json:"encountered"`
}

// TollIndex is a spatial index over toll points used to prune the proximity scan.
type TollIndex struct {
	tolls []*poi.Toll
	tree  rtree.RTreeG[int]
}

// NewTollIndex indexes the chargeable tolls; positions in tolls are kept so results follow ingestion order.
func NewTollIndex(tolls []*poi.Toll) *TollIndex {
	ix := &TollIndex{tolls: tolls}
	for i, t := range tolls {
		if !t.Chargeable() {
			continue
		}
		p := [2]float64{t.Point.Lon, t.Point.Lat}
		ix.tree.Insert(p, p, i)
	}
	return ix
}

// MatchTolls charges every toll the polyline passes within DetectionRadiusKm of.
func MatchTolls(polyline orb.LineString, axles int, tolls []*poi.Toll, avoidTolls bool) TollResult {
	if avoidTolls {
		return TollResult{Encountered: []TollHit{}}
	}
	return NewTollIndex(tolls).Match(polyline, axles)
}

// Match scans the polyline in order for each candidate toll. The first point inside the
// detection radius charges the toll once; a toll sharing a dedup key with one already
// charged on this route adds nothing.
func (ix *TollIndex) Match(polyline orb.LineString, axles int) TollResult {
	result := TollResult{Encountered: []TollHit{}}
	if len(polyline) == 0 {
		return result
	}

	candidates := ix.candidates(polyline)
	charged := make(map[string]struct{})

	for i, toll := range ix.tolls {
		if _, ok := candidates[i]; !ok {
			continue
		}
		for _, p := range polyline {
			if geo.HaversineKm(p.Lat(), p.Lon(), toll.Point.Lat, toll.Point.Lon) > DetectionRadiusKm {
				continue
			}
			key := toll.DedupKey()
			if _, dup := charged[key]; !dup {
				cost := toll.CostFor(axles)
				result.Total += cost
				charged[key] = struct{}{}
				result.Encountered = append(result.Encountered, TollHit{
					ID:      toll.ID,
					Name:    toll.Name,
					Highway: toll.Highway,
					Point:   *toll.Point,
					Cost:    cost,
				})
			}
			break
		}
	}

	result.PerAxle = result.Total / float64(max(axles, 1))
	return result
}

// candidates returns the positions of tolls inside the polyline's bounding box grown by the detection radius.
func (ix *TollIndex) candidates(polyline orb.LineString) map[int]struct{} {
	bound := polyline.Bound()
	latMargin := geo.KmToLatDegrees(DetectionRadiusKm) * pruneSlack
	maxAbsLat := math.Max(math.Abs(bound.Min.Lat()), math.Abs(bound.Max.Lat())) + latMargin
	lonMargin := geo.KmToLonDegrees(DetectionRadiusKm, math.Min(maxAbsLat, 90)) * pruneSlack

	lo := [2]float64{bound.Min.Lon() - lonMargin, bound.Min.Lat() - latMargin}
	hi := [2]float64{bound.Max.Lon() + lonMargin, bound.Max.Lat() + latMargin}

	out := make(map[int]struct{})
	ix.tree.Search(lo, hi, func(_, _ [2]float64, i int) bool {
		out[i] = struct{}{}
		return true
	})
	return out
}
