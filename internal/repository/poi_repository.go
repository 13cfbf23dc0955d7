package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/geo"
)

const snapshotBatchSize = 500

// POISnapshotModel is the GORM model for the poi_snapshot table.
// Each row is one POI of the last successful feed load; Position keeps ingestion order.
type POISnapshotModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position        int       `gorm:"not null;index"`
	Category        string    `gorm:"not null;size:30;index"`
	ExternalID      string    `gorm:"size:100"`
	Name            string    `gorm:"size:255"`
	Highway         string    `gorm:"size:100"`
	Description     string    `gorm:"size:1000"`
	Lat             *float64  `gorm:""`
	Lon             *float64  `gorm:""`
	StartLat        *float64  `gorm:""`
	StartLon        *float64  `gorm:""`
	EndLat          *float64  `gorm:""`
	EndLon          *float64  `gorm:""`
	BaseTariff      *float64  `gorm:""`
	ExtraAxleTariff *float64  `gorm:""`
	Impact          string    `gorm:"size:255"`
	EstimatedEnd    string    `gorm:"size:50"`
	LoadedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (POISnapshotModel) TableName() string {
	return "poi_snapshot"
}

// GormPOIRepository is the GORM-based implementation of poi.SnapshotRepository.
type GormPOIRepository struct {
	db *gorm.DB
}

// NewGormPOIRepository creates a new GormPOIRepository.
func NewGormPOIRepository(db *gorm.DB) *GormPOIRepository {
	return &GormPOIRepository{db: db}
}

// ReplaceSnapshot swaps the stored snapshot for pois in one transaction.
func (r *GormPOIRepository) ReplaceSnapshot(ctx context.Context, pois []poi.POI) error {
	loadedAt := time.Now().UTC()
	models := make([]POISnapshotModel, len(pois))
	for i, p := range pois {
		models[i] = toSnapshotModel(p, i, loadedAt)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&POISnapshotModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear poi snapshot: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, snapshotBatchSize).Error; err != nil {
			return fmt.Errorf("failed to save poi snapshot: %w", err)
		}
		return nil
	})
}

// LoadSnapshot returns the stored POIs in ingestion order.
func (r *GormPOIRepository) LoadSnapshot(ctx context.Context) ([]poi.POI, error) {
	var models []POISnapshotModel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load poi snapshot: %w", err)
	}

	pois := make([]poi.POI, 0, len(models))
	for i := range models {
		p, err := toDomainPOI(&models[i])
		if err != nil {
			return nil, err
		}
		pois = append(pois, p)
	}
	return pois, nil
}

func toSnapshotModel(p poi.POI, position int, loadedAt time.Time) POISnapshotModel {
	info := p.Details()
	loc := p.Location()
	m := POISnapshotModel{
		ID:          uuid.New(),
		Position:    position,
		Category:    p.Category().String(),
		ExternalID:  info.ID,
		Name:        info.Name,
		Highway:     info.Highway,
		Description: info.Description,
		LoadedAt:    loadedAt,
	}
	m.Lat, m.Lon = coordColumns(loc.Point)
	m.StartLat, m.StartLon = coordColumns(loc.SegmentStart)
	m.EndLat, m.EndLon = coordColumns(loc.SegmentEnd)

	switch v := p.(type) {
	case *poi.Toll:
		m.BaseTariff = nullableFloat(v.BaseTariff)
		m.ExtraAxleTariff = nullableFloat(v.ExtraAxleTariff)
	case *poi.Roadwork:
		m.Impact = v.Impact
		m.EstimatedEnd = v.EstimatedEnd
	}
	return m
}

func toDomainPOI(m *POISnapshotModel) (poi.POI, error) {
	info := poi.Info{
		ID:          m.ExternalID,
		Name:        m.Name,
		Highway:     m.Highway,
		Description: m.Description,
	}
	placement := poi.Placement{
		Point:        coordFromColumns(m.Lat, m.Lon),
		SegmentStart: coordFromColumns(m.StartLat, m.StartLon),
		SegmentEnd:   coordFromColumns(m.EndLat, m.EndLon),
	}

	switch poi.Category(m.Category) {
	case poi.CategoryToll:
		return &poi.Toll{
			Info:            info,
			Placement:       placement,
			BaseTariff:      floatOrNaN(m.BaseTariff),
			ExtraAxleTariff: floatOrNaN(m.ExtraAxleTariff),
		}, nil
	case poi.CategoryRoadwork:
		return &poi.Roadwork{
			Info:         info,
			Placement:    placement,
			Impact:       m.Impact,
			EstimatedEnd: m.EstimatedEnd,
		}, nil
	case poi.CategoryDuplicatedLane:
		return &poi.DuplicatedLane{Info: info, Placement: placement}, nil
	default:
		return nil, fmt.Errorf("unknown poi category %q in snapshot row %s", m.Category, m.ID)
	}
}

func coordColumns(c *geo.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lon := c.Lat, c.Lon
	return &lat, &lon
}

func coordFromColumns(lat, lon *float64) *geo.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return geo.NewCoordinate(*lat, *lon)
}

func nullableFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func floatOrNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
