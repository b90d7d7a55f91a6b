package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the default channel buffer for subscribers.
const DefaultBufferSize = 64

// BrokerOption configures a Broker.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize sets the subscriber channel buffer size.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.bufferSize = size
	}
}

// WithDropPolicy sets whether to drop events when a subscriber is full.
func WithDropPolicy[T any](drop bool) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.dropOnFull = drop
	}
}

// WithReplay makes the broker remember the last published event and hand it
// to every new subscriber. Used for state streams such as store snapshots.
func WithReplay[T any]() BrokerOption[T] {
	return func(b *Broker[T]) {
		b.replay = true
	}
}

// Broker is a type-safe pub/sub broker using Go generics.
// It is thread-safe and supports context-based subscription lifecycle.
type Broker[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	name       string
	subs       map[chan Event[T]]chan struct{} // subscriber -> closed when it leaves
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
	bufferSize int
	dropOnFull bool

	replay bool
	last   atomic.Pointer[Event[T]]

	publishCount   atomic.Int64
	dropCount      atomic.Int64
	subscriberPeak atomic.Int32
	subscriberCurr atomic.Int32
}

// NewBroker creates a new typed broker with optional configuration.
func NewBroker[T any](name string, opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		name:       name,
		subs:       make(map[chan Event[T]]chan struct{}),
		done:       make(chan struct{}),
		bufferSize: DefaultBufferSize,
		dropOnFull: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the broker's name for debugging.
func (b *Broker[T]) Name() string {
	return b.name
}

// Subscribe creates a subscription that receives events until ctx is done.
// The returned channel is closed when ctx is done or the broker shuts down.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	if last := b.last.Load(); b.replay && last != nil {
		sub <- *last
	}
	gone := make(chan struct{})
	b.subs[sub] = gone

	curr := b.subscriberCurr.Add(1)
	for {
		peak := b.subscriberPeak.Load()
		if curr <= peak || b.subscriberPeak.CompareAndSwap(peak, curr) {
			break
		}
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}

		// Blocked publishers give up on this subscriber before the lock is
		// taken; the lock then waits out publishers still delivering.
		close(gone)
		b.mu.Lock()
		defer b.mu.Unlock()

		// Shutdown may have closed it already.
		if _, ok := b.subs[sub]; !ok {
			return
		}

		delete(b.subs, sub)
		close(sub)
		b.subscriberCurr.Add(-1)
	}()

	return sub
}

// Publish sends an event to all subscribers.
// With the default drop policy, slow subscribers miss events instead of
// blocking the publisher. With the blocking policy, Publish waits until each
// subscriber takes the event, leaves, or the broker shuts down.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	// Subscribers are only removed under the write lock, so none of them is
	// closed while this delivery runs.
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}
	if b.replay {
		b.last.Store(&event)
	}
	b.publishCount.Add(1)

	for sub, gone := range b.subs {
		b.deliver(sub, gone, event)
	}
}

func (b *Broker[T]) deliver(sub chan Event[T], gone <-chan struct{}, event Event[T]) {
	if b.dropOnFull {
		select {
		case sub <- event:
		default:
			b.dropCount.Add(1)
		}
		return
	}

	select {
	case sub <- event:
	case <-gone:
		b.dropCount.Add(1)
	case <-b.done:
		b.dropCount.Add(1)
	}
}

// Last returns the most recently published payload when replay is enabled.
func (b *Broker[T]) Last() (T, bool) {
	last := b.last.Load()
	if last == nil {
		var zero T
		return zero, false
	}
	return last.Payload, true
}

// Shutdown closes all subscriber channels. Pending events are dropped.
func (b *Broker[T]) Shutdown() {
	// done is closed before locking so blocked publishers release the read
	// lock.
	b.stopOnce.Do(func() { close(b.done) })

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.subscriberCurr.Store(0)
}

// IsShutdown returns true if the broker has been shut down.
func (b *Broker[T]) IsShutdown() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	return int(b.subscriberCurr.Load())
}

// Metrics returns the broker's counters.
func (b *Broker[T]) Metrics() BrokerMetrics {
	return BrokerMetrics{
		Name:            b.name,
		PublishCount:    b.publishCount.Load(),
		DropCount:       b.dropCount.Load(),
		SubscriberCount: int(b.subscriberCurr.Load()),
		SubscriberPeak:  int(b.subscriberPeak.Load()),
		BufferSize:      b.bufferSize,
		Blocking:        !b.dropOnFull,
		Replay:          b.replay,
	}
}

// BrokerMetrics contains broker statistics and delivery policy for debugging.
type BrokerMetrics struct { //nolint:govet // fieldalignment: preserving logical field order
	Name            string
	PublishCount    int64
	DropCount       int64
	SubscriberCount int
	SubscriberPeak  int

	BufferSize int
	Blocking   bool
	Replay     bool
}
