package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/contracts"
	"github.com/rotas-rs/service-tripcost/internal/platform/kafka"
)

// FeedRefresher reloads the POI feed.
type FeedRefresher interface {
	Refresh(ctx context.Context) (*application.RefreshResult, error)
}

// FeedCommandConsumer listens to the command topic and triggers POI feed reloads.
type FeedCommandConsumer struct {
	consumer *kafka.Consumer
	service  FeedRefresher
	logger   *zap.Logger
}

// NewFeedCommandConsumer creates a new FeedCommandConsumer.
func NewFeedCommandConsumer(
	brokers []string,
	groupID string,
	service FeedRefresher,
	logger *zap.Logger,
) *FeedCommandConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contracts.TopicCommands, logger)
	return &FeedCommandConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming commands. This blocks until the context is cancelled.
func (c *FeedCommandConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FeedCommandConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FeedCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from command topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.POIFeedRefreshRequested:
		return c.handleRefreshRequested(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled command type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *FeedCommandConsumer) handleRefreshRequested(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contracts.FeedRefreshRequestedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse FeedRefreshRequestedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing feed refresh request",
		zap.String("event_id", cloudEvent.ID),
		zap.String("requested_by", evt.RequestedBy),
		zap.String("reason", evt.Reason),
	)

	result, err := c.service.Refresh(ctx)
	if err != nil {
		c.logger.Error("feed refresh requested over kafka failed",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("feed refreshed on request",
		zap.String("event_id", cloudEvent.ID),
		zap.Int("accepted", result.Feed.Accepted),
	)
	return nil
}
