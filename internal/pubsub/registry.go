package pubsub

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// BrokerInfo is the type-erased view of a broker used for debug output.
type BrokerInfo interface {
	Name() string
	SubscriberCount() int
	IsShutdown() bool
	Metrics() BrokerMetrics
}

// Registry tracks the hub's brokers by name.
type Registry struct {
	brokers map[string]BrokerInfo
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{brokers: make(map[string]BrokerInfo)}
}

// Register adds or replaces a broker.
func (r *Registry) Register(name string, broker BrokerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brokers[name] = broker
}

// Get returns the broker registered under name.
func (r *Registry) Get(name string) (BrokerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.brokers[name]
	return b, ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.brokers))
}

// AllMetrics returns the metrics of every broker keyed by name.
func (r *Registry) AllMetrics() map[string]BrokerMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]BrokerMetrics, len(r.brokers))
	for name, b := range r.brokers {
		out[name] = b.Metrics()
	}
	return out
}

// DebugString renders one line per broker: delivery policy, subscribers
// and counters.
func (r *Registry) DebugString() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "brokers: %d\n", len(r.brokers))
	for _, name := range slices.Sorted(maps.Keys(r.brokers)) {
		b := r.brokers[name]
		m := b.Metrics()

		state := "open"
		if b.IsShutdown() {
			state = "closed"
		}
		fmt.Fprintf(&sb, "  %-10s %-6s %-14s subs=%d/%d published=%d dropped=%d\n",
			name, state, policy(m), m.SubscriberCount, m.SubscriberPeak, m.PublishCount, m.DropCount)
	}
	return sb.String()
}

func policy(m BrokerMetrics) string {
	p := "drop"
	if m.Blocking {
		p = "block"
	}
	p = fmt.Sprintf("%s/%d", p, m.BufferSize)
	if m.Replay {
		p += "+replay"
	}
	return p
}
