package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
)

// Sender is the part of tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIBridge subscribes to the Hub brokers the TUI renders from and
// forwards their events to the program as Bubble Tea messages.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender) *TUIBridge {
	return &TUIBridge{
		hub:     hub,
		program: program,
	}
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(4)
	go forward(b, b.hub.Snapshot, func(e pubsub.Event[store.Snapshot]) tea.Msg {
		return SnapshotMsg{Snapshot: e.Payload}
	})
	go forward(b, b.hub.Notice, func(e pubsub.Event[events.NoticeEvent]) tea.Msg {
		return NoticeMsg{Event: e}
	})
	go forward(b, b.hub.Auth, func(e pubsub.Event[events.AuthEvent]) tea.Msg {
		return AuthEventMsg{Event: e}
	})
	go forward(b, b.hub.Transport, func(e pubsub.Event[events.TransportEvent]) tea.Msg {
		return TransportEventMsg{Event: e}
	})

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

func forward[T any](b *TUIBridge, broker *pubsub.Broker[T], wrap func(pubsub.Event[T]) tea.Msg) {
	defer b.wg.Done()

	ch := broker.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.program.Send(wrap(event))
		}
	}
}
