package poi

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotas-rs/service-tripcost/internal/geo"
)

func samplePOIs() []POI {
	return []POI{
		&Toll{Info: Info{ID: "T1", Name: "Praça Gravataí"}, Placement: Placement{Point: geo.NewCoordinate(-29.94, -50.99)}},
		&Roadwork{Info: Info{ID: "O1"}, Placement: Placement{SegmentStart: geo.NewCoordinate(-30, -51)}},
		&Toll{Info: Info{ID: "T2", Name: "Praça Montenegro"}, Placement: Placement{Point: geo.NewCoordinate(-29.68, -51.46)}},
		&DuplicatedLane{Info: Info{ID: "V1"}, Placement: Placement{SegmentStart: geo.NewCoordinate(-29.5, -51.2)}},
	}
}

func TestStore_ReplaceAllPartitionsByCategory(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(samplePOIs())

	tolls := s.ByCategory(CategoryToll)
	require.Len(t, tolls, 2)
	assert.Equal(t, "T1", tolls[0].Details().ID, "ingestion order is kept")
	assert.Equal(t, "T2", tolls[1].Details().ID)

	assert.Len(t, s.ByCategory(CategoryRoadwork), 1)
	assert.Len(t, s.ByCategory(CategoryDuplicatedLane), 1)
	assert.Empty(t, s.ByCategory(Category("radar")))
	assert.Len(t, s.All(), 4)
	assert.Len(t, s.Tolls(), 2)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Tolls)
	assert.Equal(t, 1, stats.Roadworks)
	assert.Equal(t, 1, stats.DuplicatedLanes)
	assert.False(t, stats.LoadedAt.IsZero())
}

func TestStore_ReplaceAllDiscardsPreviousContents(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(samplePOIs())
	s.ReplaceAll([]POI{&Roadwork{Info: Info{ID: "O9"}}})

	assert.Empty(t, s.ByCategory(CategoryToll))
	assert.Empty(t, s.ByCategory(CategoryDuplicatedLane))
	require.Len(t, s.ByCategory(CategoryRoadwork), 1)
	assert.Equal(t, "O9", s.ByCategory(CategoryRoadwork)[0].Details().ID)
}

func TestStore_EmptyStore(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.All())
	assert.Empty(t, s.Tolls())
	assert.True(t, s.Stats().LoadedAt.IsZero())
}

func TestStore_ReadersNeverSeePartialGeneration(t *testing.T) {
	s := NewStore()
	genA := []POI{&Toll{Info: Info{ID: "A"}}, &Roadwork{Info: Info{ID: "A"}}}
	genB := []POI{&Toll{Info: Info{ID: "B"}}, &Roadwork{Info: Info{ID: "B"}}}
	s.ReplaceAll(genA)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.ReplaceAll(genB)
			} else {
				s.ReplaceAll(genA)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		all := s.All()
		require.Len(t, all, 2)
		assert.Equal(t, all[0].Details().ID, all[1].Details().ID)
	}
	wg.Wait()
}
