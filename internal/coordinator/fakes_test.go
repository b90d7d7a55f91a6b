package coordinator

import (
	"context"
	"sync"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/transport"
)

// fakeLoader is an in-memory history.Loader.
type fakeLoader struct {
	mu        sync.Mutex
	sessions  []chat.Session
	histories map[string][]chat.Message

	listErr   error
	fetchErr  error
	createErr error
	deleteErr error

	// blocks holds fetches for a session until the channel is closed.
	blocks       map[string]chan struct{}
	fetchStarted chan string

	listCalls   int
	fetchCalls  []string
	createCalls int
	deleteCalls []string
}

func newFakeLoader(sessions ...chat.Session) *fakeLoader {
	return &fakeLoader{
		sessions:     sessions,
		histories:    make(map[string][]chat.Message),
		blocks:       make(map[string]chan struct{}),
		fetchStarted: make(chan string, 64),
	}
}

func (f *fakeLoader) ListSessions(_ context.Context) ([]chat.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]chat.Session(nil), f.sessions...), nil
}

func (f *fakeLoader) FetchHistory(ctx context.Context, id string) ([]chat.Message, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, id)
	block := f.blocks[id]
	f.mu.Unlock()

	f.fetchStarted <- id
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]chat.Message(nil), f.histories[id]...), nil
}

func (f *fakeLoader) CreateSession(_ context.Context, title string) (chat.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return chat.Session{}, f.createErr
	}
	sess := chat.Session{ID: "new-" + title, Title: title}
	f.sessions = append(f.sessions, sess)
	return sess, nil
}

func (f *fakeLoader) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeLoader) set(fn func(f *fakeLoader)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeLoader) counts() (list, create int, fetches, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls,
		append([]string(nil), f.fetchCalls...), append([]string(nil), f.deleteCalls...)
}

type sentMessage struct {
	sessionID     string
	content       string
	correlationID string
}

// fakeTransport records sends and lets tests inject inbound events.
type fakeTransport struct {
	mu         sync.Mutex
	handler    transport.Handler
	connected  bool
	connectErr error
	sendErr    error
	sent       []sentMessage
	connects   int
	closes     int
}

func (f *fakeTransport) SetHandler(h transport.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *fakeTransport) Connect(_ context.Context) error {
	f.mu.Lock()
	if f.connectErr != nil {
		err := f.connectErr
		f.mu.Unlock()
		return err
	}
	f.connects++
	f.connected = true
	h := f.handler
	f.mu.Unlock()

	h(events.NewConnectedEvent())
	return nil
}

func (f *fakeTransport) SendUserMessage(sessionID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	if !f.connected {
		return "", transport.ErrNotConnected
	}
	id := "corr-" + content
	f.sent = append(f.sent, sentMessage{sessionID: sessionID, content: content, correlationID: id})
	return id, nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	if !f.connected {
		f.mu.Unlock()
		return nil
	}
	f.connected = false
	f.closes++
	h := f.handler
	f.mu.Unlock()

	h(events.NewDisconnectedEvent(nil))
	return nil
}

func (f *fakeTransport) deliver(ev events.TransportEvent) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h(ev)
}

func (f *fakeTransport) sends() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeTransport) set(fn func(f *fakeTransport)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// fakeTokens records persisted credential changes.
type fakeTokens struct {
	mu      sync.Mutex
	saved   []string
	cleared int
}

func (f *fakeTokens) SaveToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, token)
	return nil
}

func (f *fakeTokens) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func (f *fakeTokens) state() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...), f.cleared
}
