package events

import (
	"errors"
	"testing"
	"time"
)

func TestAuthEventConstructors(t *testing.T) {
	//nolint:govet // Field order optimized for test readability.
	tests := []struct {
		name  string
		event AuthEvent
		want  AuthEventType
	}{
		{"authenticated", NewAuthenticatedEvent(), AuthEventAuthenticated},
		{"rejected", NewRejectedEvent(errors.New("401")), AuthEventRejected},
		{"logged out", NewLoggedOutEvent(), AuthEventLoggedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Type != tt.want {
				t.Errorf("Type = %q, want %q", tt.event.Type, tt.want)
			}
			if time.Since(tt.event.Timestamp) > time.Second {
				t.Error("timestamp should be recent")
			}
		})
	}
}

func TestRejectedEventCarriesError(t *testing.T) {
	cause := errors.New("token expired")
	event := NewRejectedEvent(cause)
	if !errors.Is(event.Error, cause) {
		t.Errorf("expected error %v, got %v", cause, event.Error)
	}
}

func TestTransportEventConstructors(t *testing.T) {
	reply := NewReplyEvent("a", "corr-1", "hello back")
	if reply.Type != TransportEventReply || reply.Content != "hello back" {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if reply.SessionID != "a" || reply.CorrelationID != "corr-1" {
		t.Errorf("unexpected ids: %+v", reply)
	}

	if NewConnectedEvent().Type != TransportEventConnected {
		t.Error("expected connected type")
	}

	cause := errors.New("reset by peer")
	down := NewDisconnectedEvent(cause)
	if down.Type != TransportEventDisconnected || !errors.Is(down.Error, cause) {
		t.Errorf("unexpected disconnect: %+v", down)
	}
	if NewDisconnectedEvent(nil).Error != nil {
		t.Error("requested close should carry no error")
	}
}

func TestNoticeConstructors(t *testing.T) {
	if n := NewErrorNotice("Failed to delete chat."); n.Level != NoticeError || n.Text != "Failed to delete chat." {
		t.Errorf("unexpected notice: %+v", n)
	}
	if n := NewInfoNotice("Logged out"); n.Level != NoticeInfo {
		t.Errorf("unexpected notice: %+v", n)
	}
}
