// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
)

// SnapshotMsg carries a new store snapshot for the TUI.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// NoticeMsg wraps a one-shot user notice.
type NoticeMsg struct {
	Event pubsub.Event[events.NoticeEvent]
}

// AuthEventMsg wraps an auth event for the TUI.
type AuthEventMsg struct {
	Event pubsub.Event[events.AuthEvent]
}

// TransportEventMsg wraps a transport event for the TUI.
type TransportEventMsg struct {
	Event pubsub.Event[events.TransportEvent]
}
