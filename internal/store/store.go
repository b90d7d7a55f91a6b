// Package store holds the client's in-memory session state.
//
// A Store is a plain state container: it performs no I/O and knows nothing
// about the backend. Every method is a named transition; readers take a
// Snapshot, which is a deep copy and safe to hand to other goroutines.
package store

import (
	"slices"
	"sync"

	"github.com/parthgoyal01/aurora/internal/chat"
)

// State is the coordinator's authentication state as seen by readers.
type State string

// Coordinator states.
const (
	StateUnauthenticated State = "unauthenticated"
	StateIdle            State = "idle"
	StateActive          State = "active"
)

// Snapshot is a read-only copy of the store.
type Snapshot struct { //nolint:govet // fieldalignment: preserving logical field order
	Sessions        []chat.Session
	ActiveSessionID string
	Messages        []chat.Message
	ComposerText    string
	IsSending       bool

	State     State
	Connected bool
	Version   uint64
}

// HasActiveSession reports whether a session is selected.
func (s Snapshot) HasActiveSession() bool {
	return s.ActiveSessionID != ""
}

// ActiveSession returns the selected session, if any.
func (s Snapshot) ActiveSession() (chat.Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == s.ActiveSessionID {
			return sess, true
		}
	}
	return chat.Session{}, false
}

// LastReply returns the content of the most recent assistant message.
func (s Snapshot) LastReply() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Origin == chat.OriginAssistant {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// Store is the authoritative session state.
type Store struct { //nolint:govet // fieldalignment: preserving logical field order
	mu sync.RWMutex

	sessions     []chat.Session
	activeID     string
	messages     []chat.Message
	composerText string
	isSending    bool

	state     State
	connected bool
	version   uint64
}

// New creates an empty, unauthenticated store.
func New() *Store {
	return &Store{state: StateUnauthenticated}
}

// SetSessions replaces the session list. The active session is cleared
// together with its messages when it is no longer listed.
func (s *Store) SetSessions(list []chat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = slices.Clone(list)
	if s.activeID != "" && s.indexOf(s.activeID) < 0 {
		s.clearActive()
	}
	s.bump()
}

// SelectSession makes id the active session. An empty id clears the
// selection. Unknown ids are rejected. Messages are cleared and must be
// supplied by SetMessages.
func (s *Store) SelectSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.clearActive()
		s.bump()
		return true
	}
	if s.indexOf(id) < 0 {
		return false
	}

	s.activeID = id
	s.messages = nil
	s.state = StateActive
	s.bump()
	return true
}

// StartNewSession prepends session to the list and activates it with no
// messages.
func (s *Store) StartNewSession(session chat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(session.ID); i >= 0 {
		s.sessions = slices.Delete(s.sessions, i, i+1)
	}
	s.sessions = slices.Insert(s.sessions, 0, session)
	s.activeID = session.ID
	s.messages = nil
	s.state = StateActive
	s.bump()
}

// RemoveSession drops a session by id. Removing the active session clears
// the selection and its messages in the same transition.
func (s *Store) RemoveSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.sessions = slices.Delete(s.sessions, i, i+1)
	if s.activeID == id {
		s.clearActive()
	}
	s.bump()
	return true
}

// SetComposerText replaces the composer input.
func (s *Store) SetComposerText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.composerText = text
	s.bump()
}

// SetMessages replaces the messages of sessionID. It is ignored unless
// sessionID is the active session.
func (s *Store) SetMessages(sessionID string, list []chat.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" || sessionID != s.activeID {
		return false
	}
	s.messages = slices.Clone(list)
	s.bump()
	return true
}

// AppendMessage appends one message to sessionID. It is ignored unless
// sessionID is the active session at call time.
func (s *Store) AppendMessage(sessionID string, origin chat.Origin, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" || sessionID != s.activeID {
		return false
	}
	s.messages = append(s.messages, chat.Message{Origin: origin, Content: content})
	s.bump()
	return true
}

// SendingStarted sets the sending flag. It reports false, changing
// nothing, when a send is already in flight.
func (s *Store) SendingStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSending {
		return false
	}
	s.isSending = true
	s.bump()
	return true
}

// SendingFinished clears the sending flag.
func (s *Store) SendingFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isSending {
		return
	}
	s.isSending = false
	s.bump()
}

// SetState records the coordinator state.
func (s *Store) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == state {
		return
	}
	s.state = state
	s.bump()
}

// SetConnected records whether the transport is up.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected == connected {
		return
	}
	s.connected = connected
	s.bump()
}

// Reset drops all session state and returns to unauthenticated.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.activeID = ""
	s.messages = nil
	s.composerText = ""
	s.isSending = false
	s.state = StateUnauthenticated
	s.connected = false
	s.bump()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Sessions:        slices.Clone(s.sessions),
		ActiveSessionID: s.activeID,
		Messages:        slices.Clone(s.messages),
		ComposerText:    s.composerText,
		IsSending:       s.isSending,
		State:           s.state,
		Connected:       s.connected,
		Version:         s.version,
	}
}

// Version returns the number of transitions applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// clearActive must be called with mu held.
func (s *Store) clearActive() {
	s.activeID = ""
	s.messages = nil
	if s.state == StateActive {
		s.state = StateIdle
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.sessions, func(sess chat.Session) bool {
		return sess.ID == id
	})
}

func (s *Store) bump() {
	s.version++
}
