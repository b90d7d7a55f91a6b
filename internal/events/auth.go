package events

import "time"

// AuthEventType represents auth-specific event types.
type AuthEventType string

// Auth event type constants.
//
//nolint:gosec // G101 false positive - these are event type names, not credentials
const (
	AuthEventAuthenticated AuthEventType = "authenticated"
	AuthEventRejected      AuthEventType = "rejected"
	AuthEventLoggedOut     AuthEventType = "logged_out"
)

// AuthEvent represents an authentication state change.
type AuthEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      AuthEventType
	Timestamp time.Time

	// Optional fields
	Error error // For Rejected
}

// NewAuthenticatedEvent creates an authenticated event.
func NewAuthenticatedEvent() AuthEvent {
	return AuthEvent{
		Type:      AuthEventAuthenticated,
		Timestamp: time.Now(),
	}
}

// NewRejectedEvent creates an event for a missing or rejected credential.
func NewRejectedEvent(err error) AuthEvent {
	return AuthEvent{
		Type:      AuthEventRejected,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// NewLoggedOutEvent creates a logged out event.
func NewLoggedOutEvent() AuthEvent {
	return AuthEvent{
		Type:      AuthEventLoggedOut,
		Timestamp: time.Now(),
	}
}
