// Package events defines domain-specific event types for the pub/sub system.
package events

import (
	"time"

	"github.com/parthgoyal01/aurora/internal/chat"
)

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants.
const (
	SessionEventCreated       SessionEventType = "created"
	SessionEventDeleted       SessionEventType = "deleted"
	SessionEventSwitched      SessionEventType = "switched"
	SessionEventHistoryLoaded SessionEventType = "history_loaded"
	SessionEventMessageAdded  SessionEventType = "message_added"
	SessionEventListLoaded    SessionEventType = "list_loaded"
)

// SessionEvent represents a session lifecycle event.
type SessionEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time

	// Optional fields
	Messages []chat.Message // For HistoryLoaded
	Sessions []chat.Session // For ListLoaded
	Message  chat.Message   // For MessageAdded
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventCreated,
		Timestamp: time.Now(),
	}
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventSwitched,
		Timestamp: time.Now(),
	}
}

// NewSessionDeletedEvent creates a session deleted event.
func NewSessionDeletedEvent(id string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventDeleted,
		Timestamp: time.Now(),
	}
}

// NewHistoryLoadedEvent creates an event carrying a freshly fetched history.
func NewHistoryLoadedEvent(id, title string, msgs []chat.Message) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventHistoryLoaded,
		Messages:  msgs,
		Timestamp: time.Now(),
	}
}

// NewListLoadedEvent creates an event carrying the session list.
func NewListLoadedEvent(sessions []chat.Session) SessionEvent {
	return SessionEvent{
		Type:      SessionEventListLoaded,
		Sessions:  sessions,
		Timestamp: time.Now(),
	}
}

// NewSessionMessageAddedEvent creates a message added event.
func NewSessionMessageAddedEvent(sessionID string, msg chat.Message) SessionEvent {
	return SessionEvent{
		SessionID: sessionID,
		Type:      SessionEventMessageAdded,
		Message:   msg,
		Timestamp: time.Now(),
	}
}
