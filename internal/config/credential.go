package config

import (
	"net/http"
	"strings"
	"sync"
)

// CookieName is the cookie that carries the credential on every request.
const CookieName = "token"

// Credential is the opaque session credential shared by the history client
// and the transport. It is safe for concurrent use.
type Credential struct {
	mu    sync.RWMutex
	token string
}

// NewCredential creates a holder seeded with token.
func NewCredential(token string) *Credential {
	return &Credential{token: strings.TrimSpace(token)}
}

// Token returns the current token.
func (c *Credential) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Set replaces the token.
func (c *Credential) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Clear forgets the token.
func (c *Credential) Clear() {
	c.Set("")
}

// Present reports whether a token is held.
func (c *Credential) Present() bool {
	return c.Token() != ""
}

// Cookie returns the credential as a request cookie, or nil when empty.
func (c *Credential) Cookie() *http.Cookie {
	token := c.Token()
	if token == "" {
		return nil
	}
	return &http.Cookie{Name: CookieName, Value: token}
}

// Apply attaches the credential cookie to req.
func (c *Credential) Apply(req *http.Request) {
	if cookie := c.Cookie(); cookie != nil {
		req.AddCookie(cookie)
	}
}

// Header returns handshake headers carrying the credential.
func (c *Credential) Header() http.Header {
	h := http.Header{}
	if cookie := c.Cookie(); cookie != nil {
		h.Set("Cookie", cookie.String())
	}
	return h
}
