package poi

import "context"

// SnapshotRepository persists the last successfully loaded POI set so the
// store can be warmed on startup when the feed is unreachable.
type SnapshotRepository interface {
	// ReplaceSnapshot atomically replaces the stored snapshot with pois.
	ReplaceSnapshot(ctx context.Context, pois []POI) error

	// LoadSnapshot returns the stored snapshot in its original order.
	LoadSnapshot(ctx context.Context) ([]POI, error)
}
