package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "plan_status", "validation")
	Type    string          `json:"type"`    // Event type (e.g., "loaded", "mutated", "validated")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// PlanStatus summarizes the plan contents after a mutation
type PlanStatus struct {
	Vertices int `json:"vertices"`
	Walls    int `json:"walls"`
	Rooms    int `json:"rooms"`
	Doors    int `json:"doors"`
	Windows  int `json:"windows"`
}

// ValidationData summarizes the latest validation pass
type ValidationData struct {
	IsValid   bool    `json:"isValid"`
	CanExport bool    `json:"canExport"`
	Errors    int     `json:"errors"`
	Warnings  int     `json:"warnings"`
	RoomCount int     `json:"roomCount"`
	TotalArea float64 `json:"totalArea"`
}
