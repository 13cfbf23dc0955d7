package feed

import (
	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/geo"
)

const (
	defaultName    = "Localização"
	defaultDisplay = "N/A"
)

// Stats counts what Normalize did with its input.
type Stats struct {
	Records         int `json:"records"`
	Accepted        int `json:"accepted"`
	UnknownCategory int `json:"unknown_category"`
	Dropped         int `json:"dropped"`
}

// Normalize builds POIs from raw records. Records with an unknown category are
// discarded; nil records and records with neither a valid point nor a valid segment
// start are dropped. Nothing here fails; bad rows only show up in Stats.
func Normalize(records []Record) ([]poi.POI, Stats) {
	stats := Stats{Records: len(records)}
	out := make([]poi.POI, 0, len(records))

	for _, rec := range records {
		if rec == nil {
			stats.Dropped++
			continue
		}
		category, ok := poi.CategoryFromFeed(rec.Text(FieldType))
		if !ok {
			stats.UnknownCategory++
			continue
		}

		placement := poi.Placement{
			Point:        coordinate(rec, FieldLat, FieldLon),
			SegmentStart: coordinate(rec, FieldStartLat, FieldStartLon),
			SegmentEnd:   coordinate(rec, FieldEndLat, FieldEndLon),
		}
		if !placement.IsPlaceable() {
			stats.Dropped++
			continue
		}

		info := poi.Info{
			ID:          rec.Text(FieldID),
			Name:        orDefault(rec.Text(FieldName), defaultName),
			Highway:     orDefault(rec.Text(FieldHighway), defaultDisplay),
			Description: orDefault(rec.Text(FieldDescription), defaultDisplay),
		}

		switch category {
		case poi.CategoryToll:
			out = append(out, &poi.Toll{
				Info:            info,
				Placement:       placement,
				BaseTariff:      rec.Number(FieldBaseTariff),
				ExtraAxleTariff: rec.Number(FieldExtraTariff),
			})
		case poi.CategoryRoadwork:
			out = append(out, &poi.Roadwork{
				Info:         info,
				Placement:    placement,
				Impact:       orDefault(rec.Text(FieldImpact), defaultDisplay),
				EstimatedEnd: rec.Text(FieldEstimatedEnd),
			})
		case poi.CategoryDuplicatedLane:
			out = append(out, &poi.DuplicatedLane{
				Info:      info,
				Placement: placement,
			})
		}
		stats.Accepted++
	}

	return out, stats
}

func coordinate(rec Record, latKey, lonKey string) *geo.Coordinate {
	return geo.NewCoordinate(rec.Number(latKey), rec.Number(lonKey))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
