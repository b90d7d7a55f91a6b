// Package transport owns the long-lived socket to the backend event stream.
//
// One Transport carries one connection per authenticated lifetime. Outbound
// user messages are queued and written by a dedicated pump; inbound frames
// are decoded by a read pump and handed to the registered Handler. Both
// pumps are supervised by an errgroup, so the first failure tears the
// connection down and the handler receives a single disconnected event.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
)

// Wire event names.
const (
	EventUserMessage   = "ai-message"
	EventAssistantText = "ai-response"
)

const (
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
	sendQueueSize       = 16
	maxFrameSize        = 1 << 20
)

var (
	// ErrNotConnected is returned by SendUserMessage without a live connection.
	ErrNotConnected = errors.New("transport not connected")
	// ErrClosed is returned by a Connect that was overtaken by Close.
	ErrClosed = fmt.Errorf("%w: transport closed while connecting", chat.ErrNetwork)
	// ErrPeerClosed is the disconnect cause when the server closes the socket.
	ErrPeerClosed = fmt.Errorf("%w: server closed the connection", chat.ErrNetwork)
)

// Handler receives connection changes and inbound replies. It is called
// from the transport's goroutines and must not block.
type Handler func(events.TransportEvent)

// Sender is the part of the transport the coordinator drives.
type Sender interface {
	Connect(ctx context.Context) error
	SendUserMessage(sessionID, content string) (string, error)
	Close() error
}

// Option configures a Transport.
type Option func(*Transport)

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(t *Transport) {
		t.dialer = d
	}
}

// WithPingInterval sets how often keepalive pings are written. The read
// deadline is twice this interval.
func WithPingInterval(d time.Duration) Option {
	return func(t *Transport) {
		t.pingInterval = d
	}
}

// Transport is a websocket client for the chat event stream.
type Transport struct { //nolint:govet // fieldalignment: preserving logical field order
	url          string
	credential   *config.Credential
	dialer       *websocket.Dialer
	pingInterval time.Duration

	mu      sync.Mutex
	handler Handler
	conn    *websocket.Conn
	out     chan []byte
	cancel  context.CancelFunc
	done    chan struct{}

	// gen advances on every Close; a dial started in an older generation
	// never installs its connection.
	gen     uint64
	dialSeq uint64
	dialing map[uint64]context.CancelFunc
}

var _ Sender = (*Transport)(nil)

// New creates a transport for the socket at url.
func New(url string, credential *config.Credential, opts ...Option) *Transport {
	t := &Transport{
		url:          url,
		credential:   credential,
		dialer:       websocket.DefaultDialer,
		pingInterval: defaultPingInterval,
		handler:      func(events.TransportEvent) {},
		dialing:      make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetHandler registers the receiver of transport events.
func (t *Transport) SetHandler(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h == nil {
		h = func(events.TransportEvent) {}
	}
	t.handler = h
}

func (t *Transport) emit(ev events.TransportEvent) {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	h(ev)
}

// Connected reports whether a connection is open.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Connect dials the socket with the credential cookie and starts the pumps.
// Calling Connect while connected is a no-op.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if t.credential == nil || !t.credential.Present() {
		return fmt.Errorf("connect: %w", chat.ErrAuth)
	}

	dialCtx, stopDial := context.WithCancel(ctx)
	t.mu.Lock()
	gen := t.gen
	t.dialSeq++
	dialID := t.dialSeq
	t.dialing[dialID] = stopDial
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.dialing, dialID)
		t.mu.Unlock()
		stopDial()
	}()

	conn, resp, err := t.dialer.DialContext(dialCtx, t.url, t.credential.Header())
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if t.closedSince(gen) {
			return ErrClosed
		}
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return &chat.StatusError{Method: http.MethodGet, Path: t.url, Status: resp.StatusCode}
		}
		return fmt.Errorf("%w: dialing %s: %w", chat.ErrNetwork, t.url, err)
	}
	conn.SetReadLimit(maxFrameSize)

	runCtx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte, sendQueueSize)
	done := make(chan struct{})

	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		cancel()
		_ = conn.Close()
		debug.Event("transport", "dial_discarded", t.url)
		return ErrClosed
	}
	if t.conn != nil {
		// Lost a race with another Connect.
		t.mu.Unlock()
		cancel()
		_ = conn.Close()
		return nil
	}
	t.conn = conn
	t.out = out
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	debug.Event("transport", "connected", t.url)
	t.emit(events.NewConnectedEvent())

	go t.run(runCtx, cancel, conn, out, done)
	return nil
}

func (t *Transport) closedSince(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen != gen
}

func (t *Transport) run(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan []byte, done chan struct{}) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.readPump(gctx, conn) })
	g.Go(func() error { return t.writePump(gctx, conn, out) })
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})
	err := g.Wait()
	cancel()

	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
		t.out = nil
		t.cancel = nil
		t.done = nil
	}
	t.mu.Unlock()
	close(done)

	if err != nil {
		debug.Error("transport", err, "connection lost")
	} else {
		debug.Event("transport", "closed", t.url)
	}
	t.emit(events.NewDisconnectedEvent(err))
}

func (t *Transport) readPump(ctx context.Context, conn *websocket.Conn) error {
	deadline := 2 * t.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrPeerClosed
			}
			return fmt.Errorf("%w: reading socket: %w", chat.ErrNetwork, err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(deadline))

		if ev, ok := decodeFrame(data); ok {
			t.emit(ev)
		}
	}
}

func (t *Transport) writePump(ctx context.Context, conn *websocket.Conn, out <-chan []byte) error {
	ticker := time.NewTicker(t.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		case frame := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return fmt.Errorf("%w: writing socket: %w", chat.ErrNetwork, err)
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("%w: ping: %w", chat.ErrNetwork, err)
			}
		}
	}
}

// decodeFrame turns an inbound frame into a transport event. Frames other
// than assistant replies are logged and skipped.
func decodeFrame(data []byte) (events.TransportEvent, bool) {
	if !gjson.ValidBytes(data) {
		debug.Event("transport", "invalid_frame", string(data))
		return events.TransportEvent{}, false
	}

	frame := gjson.ParseBytes(data)
	name := frame.Get("event").String()
	if name != EventAssistantText {
		debug.Event("transport", "ignored_frame", name)
		return events.TransportEvent{}, false
	}

	payload := frame.Get("data")
	content := payload.Get("content")
	if !content.Exists() {
		debug.Event("transport", "ignored_frame", "reply without content")
		return events.TransportEvent{}, false
	}

	return events.NewReplyEvent(
		payload.Get("chat").String(),
		payload.Get("id").String(),
		content.String(),
	), true
}

type outboundFrame struct {
	Event string          `json:"event"`
	Data  outboundMessage `json:"data"`
}

type outboundMessage struct {
	Chat    string `json:"chat"`
	Content string `json:"content"`
	ID      string `json:"id"`
}

// SendUserMessage queues a user message for sessionID and returns its
// correlation id without waiting for the reply.
func (t *Transport) SendUserMessage(sessionID, content string) (string, error) {
	correlationID := uuid.NewString()
	frame, err := json.Marshal(outboundFrame{
		Event: EventUserMessage,
		Data:  outboundMessage{Chat: sessionID, Content: content, ID: correlationID},
	})
	if err != nil {
		return "", fmt.Errorf("encoding message: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return "", ErrNotConnected
	}

	select {
	case t.out <- frame:
		debug.Event("transport", "queued", fmt.Sprintf("session=%s id=%s", sessionID, correlationID))
		return correlationID, nil
	default:
		return "", fmt.Errorf("%w: send queue full", chat.ErrNetwork)
	}
}

// Close tears the connection down and waits for the pumps to exit. The
// handler receives a disconnected event with a nil error. A Connect still
// dialing is abandoned and returns ErrClosed.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.gen++
	for _, stopDial := range t.dialing {
		stopDial()
	}
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
