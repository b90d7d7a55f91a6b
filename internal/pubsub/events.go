// Package pubsub provides the typed brokers that carry state changes from
// the session coordinator to the presentation layer and the archive.
package pubsub

import "time"

// EventType represents the type of event.
type EventType string

// Standard event types.
const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
	EventFailed  EventType = "failed"
)

// Event represents a typed event with metadata.
type Event[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      EventType
	Payload   T
	Timestamp time.Time
}
