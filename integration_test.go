//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/contracts"
	"github.com/rotas-rs/service-tripcost/internal/domain/poi"
	"github.com/rotas-rs/service-tripcost/internal/feed"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
	"github.com/rotas-rs/service-tripcost/internal/repository"
)

// TestRefreshRequested_ReloadsFeed verifies that a refresh command on the command
// topic reloads the feed, persists the snapshot and announces the new POI set.
func TestRefreshRequested_ReloadsFeed(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	feedSrv := startFeedServer(t, testFeedCSV)
	stack := setupTripcostStack(t, infra.DB, infra.KafkaBrokers, feedSrv.URL)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	publishTestEvent(t, infra.KafkaBrokers, contracts.TopicCommands,
		"ops-console", contracts.POIFeedRefreshRequested,
		contracts.FeedRefreshRequestedEvent{RequestedBy: "integration-test", Reason: "sheet updated"})

	// Assert: three POIs persisted, the radar row discarded.
	waitForSnapshotRows(t, infra.DB, 3, 15*time.Second)

	tolls := stack.Store.Tolls()
	require.Len(t, tolls, 1)
	assert.Equal(t, "T1", tolls[0].ID)
	assert.Equal(t, 14.0, tolls[0].CostFor(4))

	// Assert: FeedRefreshedEvent on the POI topic.
	ce := consumeOneEvent(t, infra.KafkaBrokers, contracts.TopicPOIEvents,
		contracts.POIFeedRefreshed, 15*time.Second)

	var refreshed contracts.FeedRefreshedEvent
	require.NoError(t, ce.ParseData(&refreshed))
	assert.Equal(t, 4, refreshed.Records)
	assert.Equal(t, 3, refreshed.Accepted)
	assert.Equal(t, 1, refreshed.UnknownCategory)
	assert.Equal(t, 1, refreshed.Tolls)
}

// TestSnapshot_WarmsNewStore verifies that a fresh service instance comes up with
// the POIs persisted by an earlier refresh, in ingestion order.
func TestSnapshot_WarmsNewStore(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	feedSrv := startFeedServer(t, testFeedCSV)
	stack := setupTripcostStack(t, infra.DB, infra.KafkaBrokers, feedSrv.URL)
	defer stack.CleanupProducer()

	_, err := stack.Service.Refresh(context.Background())
	require.NoError(t, err)

	// A second instance whose feed is unreachable.
	store := poi.NewStore()
	svc := application.NewPOIService(store, failingFeed{}, repository.NewGormPOIRepository(infra.DB),
		straightSegments{}, kafka.NopPublisher{}, zap.NewNop())

	require.NoError(t, svc.WarmFromSnapshot(context.Background()))
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, poi.CategoryToll, all[0].Category())
	assert.Equal(t, "O1", all[1].Details().ID)
	assert.Equal(t, "V1", all[2].Details().ID)

	work := all[1].(*poi.Roadwork)
	assert.Equal(t, "Alto", work.Impact)
	_, _, ok := work.Segment()
	assert.True(t, ok)

	waitForSnapshotRows(t, infra.DB, 3, 5*time.Second)
}

type failingFeed struct{}

func (failingFeed) Fetch(context.Context) ([]feed.Record, error) {
	return nil, feed.ErrFeedUnavailable
}
