package events

import "time"

// TransportEventType represents socket connection event types.
type TransportEventType string

// Transport event type constants.
const (
	TransportEventConnected    TransportEventType = "connected"
	TransportEventDisconnected TransportEventType = "disconnected"
	TransportEventReply        TransportEventType = "reply"
)

// TransportEvent represents a connection state change or an inbound reply.
type TransportEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      TransportEventType
	Timestamp time.Time

	// Reply fields. SessionID and CorrelationID are empty when the server
	// does not echo them.
	SessionID     string
	CorrelationID string
	Content       string

	Error error // For Disconnected
}

// NewConnectedEvent creates a connected event.
func NewConnectedEvent() TransportEvent {
	return TransportEvent{
		Type:      TransportEventConnected,
		Timestamp: time.Now(),
	}
}

// NewDisconnectedEvent creates a disconnected event. err is nil for a
// requested close.
func NewDisconnectedEvent(err error) TransportEvent {
	return TransportEvent{
		Type:      TransportEventDisconnected,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// NewReplyEvent creates an inbound assistant reply event.
func NewReplyEvent(sessionID, correlationID, content string) TransportEvent {
	return TransportEvent{
		Type:          TransportEventReply,
		SessionID:     sessionID,
		CorrelationID: correlationID,
		Content:       content,
		Timestamp:     time.Now(),
	}
}
