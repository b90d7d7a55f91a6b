package pubsub

import (
	"sync"

	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/store"
)

// Hub is the central container for all domain brokers.
type Hub struct { //nolint:govet // fieldalignment: preserving logical field order
	Session   *Broker[events.SessionEvent]
	Auth      *Broker[events.AuthEvent]
	Transport *Broker[events.TransportEvent]
	Notice    *Broker[events.NoticeEvent]
	Snapshot  *Broker[store.Snapshot]

	registry *Registry
	done     chan struct{}
	once     sync.Once
}

// NewHub creates a new Hub with all domain brokers initialized.
func NewHub() *Hub {
	h := &Hub{
		// The archive must see every session event, so this one blocks.
		Session:   NewBroker("session", WithDropPolicy[events.SessionEvent](false), WithBufferSize[events.SessionEvent](256)),
		Auth:      NewBroker[events.AuthEvent]("auth"),
		Transport: NewBroker[events.TransportEvent]("transport"),
		Notice:    NewBroker[events.NoticeEvent]("notice"),
		Snapshot:  NewBroker("snapshot", WithReplay[store.Snapshot]()),
		registry:  NewRegistry(),
		done:      make(chan struct{}),
	}

	h.registry.Register("session", h.Session)
	h.registry.Register("auth", h.Auth)
	h.registry.Register("transport", h.Transport)
	h.registry.Register("notice", h.Notice)
	h.registry.Register("snapshot", h.Snapshot)

	return h
}

// Shutdown shuts down all brokers.
func (h *Hub) Shutdown() {
	h.once.Do(func() {
		close(h.done)

		var wg sync.WaitGroup
		for _, shutdown := range []func(){
			h.Session.Shutdown,
			h.Auth.Shutdown,
			h.Transport.Shutdown,
			h.Notice.Shutdown,
			h.Snapshot.Shutdown,
		} {
			wg.Add(1)
			go func(fn func()) {
				defer wg.Done()
				fn()
			}(shutdown)
		}
		wg.Wait()
	})
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Registry returns the debug registry for introspection.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}
