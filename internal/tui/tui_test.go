package tui

import (
	"context"
	"regexp"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthgoyal01/aurora/internal/bridge"
	chatmodel "github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
	"github.com/parthgoyal01/aurora/internal/tui/components/welcome"
	"github.com/parthgoyal01/aurora/internal/tui/page"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

type fakeController struct {
	snapshot store.Snapshot
	loginErr error
	tokens   []string
}

func (f *fakeController) Refresh(context.Context) error               { return nil }
func (f *fakeController) SelectSession(context.Context, string) error { return nil }
func (f *fakeController) DeleteSession(context.Context, string) error { return nil }
func (f *fakeController) SetComposerText(string) error                { return nil }
func (f *fakeController) Send() error                                 { return nil }
func (f *fakeController) Logout(context.Context) error                { return nil }
func (f *fakeController) Snapshot() store.Snapshot                    { return f.snapshot }
func (f *fakeController) CreateSession(_ context.Context, title string) (chatmodel.Session, error) {
	return chatmodel.Session{ID: "x", Title: title}, nil
}

func (f *fakeController) Login(_ context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return f.loginErr
}

func newModel(t *testing.T, state store.State) (*Model, *fakeController) {
	t.Helper()
	ctrl := &fakeController{snapshot: store.Snapshot{State: state, Version: 1}}
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ctrl
}

func snapshotMsg(state store.State, version uint64) bridge.SnapshotMsg {
	return bridge.SnapshotMsg{Snapshot: store.Snapshot{State: state, Version: version, Connected: true}}
}

func typeToken(m *Model, token string) {
	for _, r := range token {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestModel_StartingPage(t *testing.T) {
	tests := []struct {
		state store.State
		want  page.ID
	}{
		{store.StateUnauthenticated, page.Welcome},
		{store.StateIdle, page.Chat},
		{store.StateActive, page.Chat},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			m, _ := newModel(t, tt.state)
			assert.Equal(t, tt.want, m.CurrentPage())
		})
	}
}

func TestModel_LoadingBeforeSize(t *testing.T) {
	m := New(&fakeController{})
	assert.Equal(t, "Loading...", m.View().Content)
}

func TestModel_SnapshotSwitchesPages(t *testing.T) {
	m, _ := newModel(t, store.StateUnauthenticated)

	m.Update(snapshotMsg(store.StateIdle, 2))
	assert.Equal(t, page.Chat, m.CurrentPage())
	assert.Contains(t, stripANSI(m.View().Content), "No chats yet.")

	m.Update(snapshotMsg(store.StateUnauthenticated, 3))
	assert.Equal(t, page.Welcome, m.CurrentPage())
	assert.Contains(t, stripANSI(m.View().Content), "session token")
}

func TestModel_LoginFlow(t *testing.T) {
	m, ctrl := newModel(t, store.StateUnauthenticated)

	typeToken(m, "abc123")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	login := cmd()
	assert.Equal(t, welcome.LoginMsg{Token: "abc123"}, login)

	_, cmd = m.Update(login)
	require.NotNil(t, cmd)
	done := cmd()
	assert.Equal(t, []string{"abc123"}, ctrl.tokens)

	m.Update(done)
	m.Update(snapshotMsg(store.StateIdle, 2))
	assert.Equal(t, page.Chat, m.CurrentPage())
}

func TestModel_LoginRejected(t *testing.T) {
	m, ctrl := newModel(t, store.StateUnauthenticated)
	ctrl.loginErr = chatmodel.ErrAuth

	typeToken(m, "bad")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = m.Update(cmd())

	// The rejection event arrives while the login is still in flight.
	m.Update(bridge.AuthEventMsg{Event: pubsub.Event[events.AuthEvent]{
		Type:    pubsub.EventFailed,
		Payload: events.NewRejectedEvent(chatmodel.ErrAuth),
	}})
	m.Update(cmd())

	view := stripANSI(m.View().Content)
	assert.Contains(t, view, "That token was not accepted.")
	assert.NotContains(t, view, "Session expired")
	assert.Equal(t, page.Welcome, m.CurrentPage())
}

func TestModel_SessionExpired(t *testing.T) {
	m, _ := newModel(t, store.StateIdle)

	m.Update(bridge.AuthEventMsg{Event: pubsub.Event[events.AuthEvent]{
		Type:    pubsub.EventFailed,
		Payload: events.NewRejectedEvent(chatmodel.ErrAuth),
	}})
	m.Update(snapshotMsg(store.StateUnauthenticated, 2))

	assert.Equal(t, page.Welcome, m.CurrentPage())
	assert.Contains(t, stripANSI(m.View().Content), "Session expired. Please log in again.")
}

func TestModel_NoticeOnWelcome(t *testing.T) {
	m, _ := newModel(t, store.StateUnauthenticated)

	m.Update(bridge.NoticeMsg{Event: pubsub.Event[events.NoticeEvent]{
		Type:    pubsub.EventCreated,
		Payload: events.NewErrorNotice("Could not load your chats."),
	}})
	assert.Contains(t, stripANSI(m.View().Content), "Could not load your chats.")
}

func TestModel_CtrlCQuits(t *testing.T) {
	for _, state := range []store.State{store.StateUnauthenticated, store.StateIdle} {
		m, _ := newModel(t, state)
		_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
