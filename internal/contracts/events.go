// Package contracts holds the topics, event types and payloads exchanged over Kafka.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

const Source = "service-tripcost"

// Topics.
const (
	TopicPOIEvents  = "tripcost.poi.events"
	TopicTripEvents = "tripcost.trip.events"
	TopicCommands   = "tripcost.commands"
)

// Event types.
const (
	POIFeedRefreshed        = "poi.feed.refreshed"
	POIFeedRefreshRequested = "poi.feed.refresh.requested"
	TripEstimated           = "trip.estimated"
)

// FeedRefreshedEvent is published after a feed load replaced the POI store.
type FeedRefreshedEvent struct {
	Records         int       `json:"records"`
	Accepted        int       `json:"accepted"`
	Dropped         int       `json:"dropped"`
	UnknownCategory int       `json:"unknown_category"`
	Tolls           int       `json:"tolls"`
	Roadworks       int       `json:"roadworks"`
	DuplicatedLanes int       `json:"duplicated_lanes"`
	RefreshedAt     time.Time `json:"refreshed_at"`
}

// FeedRefreshRequestedEvent asks the service to reload the POI feed.
type FeedRefreshRequestedEvent struct {
	RequestedBy string `json:"requested_by"`
	Reason      string `json:"reason,omitempty"`
}

// TripEstimatedEvent is published for every completed estimate.
type TripEstimatedEvent struct {
	EstimateID   uuid.UUID `json:"estimate_id"`
	SessionID    string    `json:"session_id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Axles        int       `json:"axles"`
	AvoidTolls   bool      `json:"avoid_tolls"`
	DistanceKm   float64   `json:"distance_km"`
	DurationMin  float64   `json:"duration_min"`
	TollsCharged int       `json:"tolls_charged"`
	TollTotal    float64   `json:"toll_total"`
	FuelTotal    float64   `json:"fuel_total"`
	GrandTotal   float64   `json:"grand_total"`
	Superseded   bool      `json:"superseded"`
	EstimatedAt  time.Time `json:"estimated_at"`
}
