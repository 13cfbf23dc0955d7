package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Coordinate is a (latitude, longitude) pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate returns a coordinate, or nil when either component is not finite.
func NewCoordinate(lat, lon float64) *Coordinate {
	c := Coordinate{Lat: lat, Lon: lon}
	if !c.IsFinite() {
		return nil
	}
	return &c
}

// IsFinite reports whether both components are finite numbers.
func (c Coordinate) IsFinite() bool {
	return isFinite(c.Lat) && isFinite(c.Lon)
}

// InRange reports whether the coordinate lies on the globe.
func (c Coordinate) InRange() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Point converts to an orb point, which is (lon, lat).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FromPoint converts an orb (lon, lat) point.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
