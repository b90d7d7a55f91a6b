//nolint:errorlint // Test files use direct error comparison.
package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
)

func TestSnapshotMsg(t *testing.T) {
	t.Run("carries snapshot by value", func(t *testing.T) {
		snap := store.Snapshot{
			Sessions:        []chat.Session{{ID: "s1", Title: "First"}},
			ActiveSessionID: "s1",
			Version:         3,
		}

		msg := SnapshotMsg{Snapshot: snap}

		if msg.Snapshot.ActiveSessionID != "s1" {
			t.Errorf("expected ActiveSessionID 's1', got %q", msg.Snapshot.ActiveSessionID)
		}
		if msg.Snapshot.Version != 3 {
			t.Errorf("expected Version 3, got %d", msg.Snapshot.Version)
		}
	})
}

func TestNoticeMsg(t *testing.T) {
	t.Run("wraps notice event correctly", func(t *testing.T) {
		event := pubsub.Event[events.NoticeEvent]{
			Type:      pubsub.EventCreated,
			Payload:   events.NewErrorNotice("Failed to delete chat."),
			Timestamp: time.Now(),
		}

		msg := NoticeMsg{Event: event}

		if msg.Event.Payload.Level != events.NoticeError {
			t.Errorf("expected level error, got %q", msg.Event.Payload.Level)
		}
		if msg.Event.Payload.Text != "Failed to delete chat." {
			t.Errorf("unexpected text %q", msg.Event.Payload.Text)
		}
	})
}

func TestAuthEventMsg(t *testing.T) {
	t.Run("wraps rejected event with error", func(t *testing.T) {
		rejectErr := errors.New("expired")
		event := pubsub.Event[events.AuthEvent]{
			Type:      pubsub.EventFailed,
			Payload:   events.NewRejectedEvent(rejectErr),
			Timestamp: time.Now(),
		}

		msg := AuthEventMsg{Event: event}

		if msg.Event.Payload.Type != events.AuthEventRejected {
			t.Errorf("expected rejected, got %q", msg.Event.Payload.Type)
		}
		if msg.Event.Payload.Error != rejectErr {
			t.Errorf("expected error to be preserved")
		}
	})
}

func TestTransportEventMsg(t *testing.T) {
	t.Run("wraps reply event correctly", func(t *testing.T) {
		event := pubsub.Event[events.TransportEvent]{
			Type:      pubsub.EventCreated,
			Payload:   events.NewReplyEvent("s1", "corr-1", "hello"),
			Timestamp: time.Now(),
		}

		msg := TransportEventMsg{Event: event}

		if msg.Event.Payload.SessionID != "s1" {
			t.Errorf("expected SessionID 's1', got %q", msg.Event.Payload.SessionID)
		}
		if msg.Event.Payload.Content != "hello" {
			t.Errorf("expected Content 'hello', got %q", msg.Event.Payload.Content)
		}
	})
}
