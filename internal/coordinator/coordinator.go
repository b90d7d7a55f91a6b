// Package coordinator drives session synchronization.
//
// A Coordinator owns the only goroutine that mutates the store. User
// intents, loader results and transport events are all turned into
// transitions on a single queue and applied one at a time; blocking calls
// run in their own goroutines and post their results back to the queue.
// After every transition that changed the store, one snapshot is published
// on the hub's snapshot broker.
package coordinator

import (
	"context"
	"errors"
	"sync"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/history"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
	"github.com/parthgoyal01/aurora/internal/transport"
)

// Errors returned by intents.
var (
	ErrStopped    = errors.New("coordinator stopped")
	ErrSuperseded = errors.New("superseded by a later transition")
)

const queueSize = 64

// Transport is the socket the coordinator opens once per login.
type Transport interface {
	transport.Sender
	SetHandler(transport.Handler)
}

// TokenStore persists the credential between runs.
type TokenStore interface {
	SaveToken(token string) error
	ClearToken() error
}

// Config holds the coordinator's collaborators.
type Config struct {
	Store      *store.Store
	Loader     history.Loader
	Transport  Transport
	Credential *config.Credential
	Tokens     TokenStore // optional
	Hub        *pubsub.Hub
}

// pendingSend is the one user message awaiting its reply.
type pendingSend struct {
	sessionID     string
	correlationID string
}

// Coordinator serializes every state transition of the client.
type Coordinator struct { //nolint:govet // fieldalignment: preserving logical field order
	store      *store.Store
	loader     history.Loader
	transport  Transport
	credential *config.Credential
	tokens     TokenStore
	hub        *pubsub.Hub

	queue chan func()
	wake  chan struct{}

	inboxMu sync.Mutex
	inbox   []events.TransportEvent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	loopWG sync.WaitGroup

	// Loop-owned state. Only touched on the loop goroutine.
	epoch     uint64
	fetchGen  uint64
	pending   *pendingSend
	published uint64
}

// New creates a coordinator. Call Start before issuing intents.
func New(cfg Config) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		store:      cfg.Store,
		loader:     cfg.Loader,
		transport:  cfg.Transport,
		credential: cfg.Credential,
		tokens:     cfg.Tokens,
		hub:        cfg.Hub,
		queue:      make(chan func(), queueSize),
		wake:       make(chan struct{}, 1),
		ctx:        ctx,
		cancel:     cancel,
	}
	if c.store == nil {
		c.store = store.New()
	}
	if c.credential == nil {
		c.credential = config.NewCredential("")
	}
	c.transport.SetHandler(c.handleTransport)
	return c
}

// Start launches the event loop and publishes the initial snapshot.
func (c *Coordinator) Start() {
	c.loopWG.Add(1)
	go c.loop()
	c.post(func() {
		c.published = c.store.Version()
		c.hub.Snapshot.Publish(pubsub.EventUpdated, c.store.Snapshot())
	})
}

// Stop ends the loop, waits for in-flight calls and closes the transport.
func (c *Coordinator) Stop() {
	c.once.Do(func() {
		c.cancel()
		c.loopWG.Wait()
		c.wg.Wait()
		if err := c.transport.Close(); err != nil {
			debug.Error("coordinator", err, "closing transport on stop")
		}
		debug.Event("coordinator", "stopped", "")
	})
}

// Snapshot returns the current store state.
func (c *Coordinator) Snapshot() store.Snapshot {
	return c.store.Snapshot()
}

func (c *Coordinator) loop() {
	defer c.loopWG.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case fn := <-c.queue:
			// Transport events that arrived first are applied first.
			c.applyInbox()
			fn()
		case <-c.wake:
			c.applyInbox()
		}
		c.publishSnapshot()
	}
}

// post enqueues a transition. It reports false once the coordinator stopped.
func (c *Coordinator) post(fn func()) bool {
	select {
	case c.queue <- fn:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// call runs a transition and waits for it to report its outcome. The
// transition may hand reply to an async continuation; reply must be called
// exactly once, on the loop.
func (c *Coordinator) call(ctx context.Context, fn func(reply func(error))) error {
	res := make(chan error, 1)
	if !c.post(func() { fn(func(err error) { res <- err }) }) {
		return ErrStopped
	}
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrStopped
	}
}

// async runs work off the loop and applies then on the loop. The work
// context ends with either ctx or the coordinator.
func async[T any](ctx context.Context, c *Coordinator, work func(context.Context) (T, error), then func(T, error)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		workCtx, cancel := context.WithCancel(ctx)
		stop := context.AfterFunc(c.ctx, cancel)
		defer func() {
			stop()
			cancel()
		}()

		v, err := work(workCtx)
		c.post(func() { then(v, err) })
	}()
}

func (c *Coordinator) publishSnapshot() {
	v := c.store.Version()
	if v == c.published {
		return
	}
	c.published = v
	c.hub.Snapshot.Publish(pubsub.EventUpdated, c.store.Snapshot())
}

func (c *Coordinator) notify(err error, text string) {
	if err != nil {
		debug.Error("coordinator", err, text)
	}
	c.hub.Notice.Publish(pubsub.EventCreated, events.NewErrorNotice(text))
}

func (c *Coordinator) authenticated() bool {
	return c.store.Snapshot().State != store.StateUnauthenticated
}

// resetPending abandons the outstanding send, if any.
func (c *Coordinator) resetPending(reason string) {
	if c.pending != nil {
		debug.Event("coordinator", "send_reset", reason)
	}
	c.pending = nil
	c.store.SendingFinished()
}

// handleFailure applies the global policy for a failed backend call: auth
// failures log out, anything else becomes a one-shot notice.
func (c *Coordinator) handleFailure(err error, notice string) {
	if errors.Is(err, chat.ErrAuth) {
		c.unauthenticate(err)
		return
	}
	c.notify(err, notice)
}

// unauthenticate drops everything tied to the rejected credential.
func (c *Coordinator) unauthenticate(cause error) {
	debug.Auth("rejected", cause.Error())
	c.teardown()
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			debug.Error("coordinator", err, "clearing stored token")
		}
	}
	c.hub.Auth.Publish(pubsub.EventFailed, events.NewRejectedEvent(cause))
	c.hub.Notice.Publish(pubsub.EventCreated, events.NewErrorNotice("Session expired. Please log in again."))
}

// teardown closes the transport and resets all state. Results of calls
// started before it are discarded.
func (c *Coordinator) teardown() {
	c.epoch++
	c.fetchGen++
	c.pending = nil
	if err := c.transport.Close(); err != nil {
		debug.Error("coordinator", err, "closing transport")
	}
	c.credential.Clear()
	c.store.Reset()
}
