package poi

import (
	"sync/atomic"
	"time"
)

// partitions is one immutable generation of store contents.
type partitions struct {
	tolls     []*Toll
	roadworks []*Roadwork
	lanes     []*DuplicatedLane
	loadedAt  time.Time
}

// Stats summarizes the current store contents.
type Stats struct {
	Tolls           int       `json:"tolls"`
	Roadworks       int       `json:"roadworks"`
	DuplicatedLanes int       `json:"duplicated_lanes"`
	LoadedAt        time.Time `json:"loaded_at"`
}

// Store holds the normalized POIs partitioned by category.
// ReplaceAll swaps every partition in one step; readers see either the old or the new generation.
type Store struct {
	current atomic.Pointer[partitions]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&partitions{})
	return s
}

// ReplaceAll discards the current contents and installs pois, keeping ingestion order.
func (s *Store) ReplaceAll(pois []POI) {
	next := &partitions{loadedAt: time.Now().UTC()}
	for _, p := range pois {
		switch v := p.(type) {
		case *Toll:
			next.tolls = append(next.tolls, v)
		case *Roadwork:
			next.roadworks = append(next.roadworks, v)
		case *DuplicatedLane:
			next.lanes = append(next.lanes, v)
		}
	}
	s.current.Store(next)
}

// ByCategory returns the POIs of category c in ingestion order.
func (s *Store) ByCategory(c Category) []POI {
	return s.current.Load().byCategory(c)
}

func (cur *partitions) byCategory(c Category) []POI {
	var out []POI
	switch c {
	case CategoryToll:
		out = make([]POI, 0, len(cur.tolls))
		for _, t := range cur.tolls {
			out = append(out, t)
		}
	case CategoryRoadwork:
		out = make([]POI, 0, len(cur.roadworks))
		for _, r := range cur.roadworks {
			out = append(out, r)
		}
	case CategoryDuplicatedLane:
		out = make([]POI, 0, len(cur.lanes))
		for _, d := range cur.lanes {
			out = append(out, d)
		}
	}
	return out
}

// All returns every POI, tolls first, then roadworks, then duplicated lanes.
func (s *Store) All() []POI {
	cur := s.current.Load()
	var out []POI
	for _, c := range Categories {
		out = append(out, cur.byCategory(c)...)
	}
	return out
}

// Tolls returns the toll partition. The slice must not be modified.
func (s *Store) Tolls() []*Toll {
	return s.current.Load().tolls
}

// Stats returns partition sizes and the time of the last ReplaceAll.
func (s *Store) Stats() Stats {
	cur := s.current.Load()
	return Stats{
		Tolls:           len(cur.tolls),
		Roadworks:       len(cur.roadworks),
		DuplicatedLanes: len(cur.lanes),
		LoadedAt:        cur.loadedAt,
	}
}
