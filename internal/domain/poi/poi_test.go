package poi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rotas-rs/service-tripcost/internal/geo"
)

func TestCategoryFromFeed(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"PEDAGIO", CategoryToll, true},
		{" pedagio ", CategoryToll, true},
		{"Obra", CategoryRoadwork, true},
		{"VIA_DUPLA", CategoryDuplicatedLane, true},
		{"toll", CategoryToll, true},
		{"RADAR", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CategoryFromFeed(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Roadwork")
	assert.NoError(t, err)
	assert.Equal(t, CategoryRoadwork, c)

	_, err = ParseCategory("pedagio")
	assert.Error(t, err)
}

func TestToll_CostFor(t *testing.T) {
	toll := &Toll{BaseTariff: 10, ExtraAxleTariff: 5}

	assert.Equal(t, 10.0, toll.CostFor(2))
	assert.Equal(t, 10.0, toll.CostFor(1))
	assert.Equal(t, 10.0, toll.CostFor(0))
	assert.Equal(t, 25.0, toll.CostFor(5))
}

func TestToll_Chargeable(t *testing.T) {
	point := geo.NewCoordinate(-30, -51)

	assert.True(t, (&Toll{Placement: Placement{Point: point}, BaseTariff: 8, ExtraAxleTariff: 0}).Chargeable())
	assert.False(t, (&Toll{Placement: Placement{Point: point}, BaseTariff: math.NaN(), ExtraAxleTariff: 3}).Chargeable())
	assert.False(t, (&Toll{Placement: Placement{Point: point}, BaseTariff: 8, ExtraAxleTariff: math.NaN()}).Chargeable())
	assert.False(t, (&Toll{Placement: Placement{SegmentStart: point}, BaseTariff: 8, ExtraAxleTariff: 3}).Chargeable())
}

func TestToll_DedupKey(t *testing.T) {
	withID := &Toll{Info: Info{ID: "T1"}, Placement: Placement{Point: geo.NewCoordinate(-30, -51)}}
	assert.Equal(t, "id:T1", withID.DedupKey())

	a := &Toll{Placement: Placement{Point: geo.NewCoordinate(-30, -51)}}
	b := &Toll{Placement: Placement{Point: geo.NewCoordinate(-29, -51)}}
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestPlacement_Segment(t *testing.T) {
	start := geo.NewCoordinate(-30, -51)

	_, _, ok := Placement{SegmentStart: start, SegmentEnd: geo.NewCoordinate(-30.00005, -51.00005)}.Segment()
	assert.False(t, ok, "ends closer than the epsilon are a point")

	s, e, ok := Placement{SegmentStart: start, SegmentEnd: geo.NewCoordinate(-30.1, -51)}.Segment()
	assert.True(t, ok)
	assert.Equal(t, *start, s)
	assert.Equal(t, -30.1, e.Lat)

	_, _, ok = Placement{SegmentStart: start}.Segment()
	assert.False(t, ok)
}

func TestPlacement_Anchor(t *testing.T) {
	point := geo.NewCoordinate(-29, -50)
	start := geo.NewCoordinate(-30, -51)

	got, ok := Placement{Point: point, SegmentStart: start, SegmentEnd: geo.NewCoordinate(-31, -51)}.Anchor()
	assert.True(t, ok)
	assert.Equal(t, *start, got)

	got, ok = Placement{Point: point}.Anchor()
	assert.True(t, ok)
	assert.Equal(t, *point, got)

	got, ok = Placement{SegmentStart: start}.Anchor()
	assert.True(t, ok)
	assert.Equal(t, *start, got)

	_, ok = Placement{}.Anchor()
	assert.False(t, ok)
}
