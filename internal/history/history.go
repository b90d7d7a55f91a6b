// Package history is the request/response client for chat sessions and
// their message history.
//
// The client keeps no copies of what it returns. Every call carries the
// shared credential as a cookie and reports failures with the chat error
// taxonomy: chat.ErrAuth for a missing or rejected credential, chat.ErrNetwork
// for everything transient, chat.ErrValidation for input refused locally.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/debug"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Loader is the set of backend calls the coordinator depends on.
type Loader interface {
	ListSessions(ctx context.Context) ([]chat.Session, error)
	FetchHistory(ctx context.Context, sessionID string) ([]chat.Message, error)
	CreateSession(ctx context.Context, title string) (chat.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient bases the client on hc. hc itself is not modified; the
// client works on a copy carrying its own cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout. It wins over the timeout of a
// client passed with WithHTTPClient, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client talks to the chat REST API.
type Client struct {
	base       *url.URL
	http       *http.Client
	timeout    time.Duration
	jar        http.CookieJar
	credential *config.Credential
}

var _ Loader = (*Client)(nil)

// New creates a client rooted at baseURL, e.g. "http://localhost:3000/api".
func New(baseURL string, credential *config.Credential, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must be http or https", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		base:       base,
		http:       &http.Client{Timeout: DefaultTimeout},
		jar:        jar,
		credential: credential,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	hc.Jar = jar
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc

	return c, nil
}

type wireSession struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ListSessions returns all sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]chat.Session, error) {
	var body struct {
		Chats []wireSession `json:"chats"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat", nil, &body); err != nil {
		return nil, err
	}

	// The wire order is oldest first.
	sessions := make([]chat.Session, 0, len(body.Chats))
	for i := len(body.Chats) - 1; i >= 0; i-- {
		w := body.Chats[i]
		sessions = append(sessions, chat.Session{ID: w.ID, Title: w.Title})
	}
	return sessions, nil
}

// FetchHistory returns the messages of a session, oldest first.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]chat.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, chat.Invalid("session id is required")
	}

	var body struct {
		Messages []wireMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/messages/"+url.PathEscape(sessionID), nil, &body); err != nil {
		return nil, err
	}

	messages := make([]chat.Message, 0, len(body.Messages))
	for _, w := range body.Messages {
		messages = append(messages, chat.Message{
			Origin:  chat.OriginFromRole(w.Role),
			Content: w.Content,
		})
	}
	return messages, nil
}

// CreateSession creates a session with the given title. Blank titles are
// rejected without a network call.
func (c *Client) CreateSession(ctx context.Context, title string) (chat.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return chat.Session{}, chat.Invalid("title is required")
	}

	req := struct {
		Title string `json:"title"`
	}{Title: title}
	var body struct {
		Chat wireSession `json:"chat"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", req, &body); err != nil {
		return chat.Session{}, err
	}
	if body.Chat.ID == "" {
		return chat.Session{}, fmt.Errorf("%w: create returned no chat id", chat.ErrNetwork)
	}

	return chat.Session{ID: body.Chat.ID, Title: body.Chat.Title}, nil
}

// DeleteSession deletes a session. A session the backend no longer knows
// yields an error matching chat.ErrNotFound.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return chat.Invalid("session id is required")
	}
	return c.do(ctx, http.MethodDelete, "/chat/"+url.PathEscape(sessionID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.credential == nil || !c.credential.Present() {
		return fmt.Errorf("%s %s: %w", method, path, chat.ErrAuth)
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.syncCredential()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		debug.Error("history", err, method+" "+path)
		return fmt.Errorf("%w: %s %s: %w", chat.ErrNetwork, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	debug.Event("history", "response",
		fmt.Sprintf("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return &chat.StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", chat.ErrNetwork, method, path, err)
	}
	return nil
}

// syncCredential mirrors the shared credential into the cookie jar, the
// same way a browser sends its session cookie with every request.
func (c *Client) syncCredential() {
	root := *c.base
	root.Path = "/"
	cookie := &http.Cookie{Name: config.CookieName, Path: "/"}
	if token := c.credential.Token(); token != "" {
		cookie.Value = token
	} else {
		cookie.MaxAge = -1
	}
	c.jar.SetCookies(&root, []*http.Cookie{cookie})
}
