// Package tui provides the terminal user interface for aurora.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/parthgoyal01/aurora/internal/bridge"
	chatmodel "github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
	"github.com/parthgoyal01/aurora/internal/tui/components/welcome"
	"github.com/parthgoyal01/aurora/internal/tui/page"
	"github.com/parthgoyal01/aurora/internal/tui/page/chat"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// Controller is everything the interface asks of the session coordinator.
type Controller interface {
	chat.Controller
	Login(ctx context.Context, token string) error
	Snapshot() store.Snapshot
}

// loginDoneMsg reports the outcome of a login attempt.
type loginDoneMsg struct {
	err error
}

// Model is the main TUI model.
type Model struct {
	welcome     *welcome.Welcome
	chatPage    *chat.Model
	ctrl        Controller
	bridge      *bridge.TUIBridge
	currentPage page.ID
	keyMap      KeyMap
	width       int
	height      int
	ready       bool
}

// New creates a new TUI model. The starting page follows the controller's
// current state.
func New(ctrl Controller) *Model {
	m := &Model{
		welcome:     welcome.New(),
		chatPage:    chat.New(ctrl),
		ctrl:        ctrl,
		currentPage: page.Welcome,
		keyMap:      DefaultKeyMap(),
	}

	snap := ctrl.Snapshot()
	m.chatPage.ApplySnapshot(snap)
	if snap.State != store.StateUnauthenticated {
		m.currentPage = page.Chat
	}
	return m
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.welcome.Init(), m.chatPage.Init())
}

// Update handles messages.
//
//nolint:gocyclo // TUI update handler requires handling many message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.handleWindowSize(msg)
		return m, nil
	case tea.KeyMsg:
		debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
	case tea.MouseMotionMsg:
		// Too noisy to log.
	case bridge.SnapshotMsg:
		debug.Event("tui", "Snapshot", fmt.Sprintf("version=%d state=%s", msg.Snapshot.Version, msg.Snapshot.State))
		return m, m.handleSnapshot(msg)
	case bridge.AuthEventMsg:
		m.handleAuthEvent(msg.Event.Payload)
		return m, nil
	case bridge.NoticeMsg:
		if m.currentPage == page.Welcome {
			if !m.welcome.Busy() {
				m.welcome.SetNotice(msg.Event.Payload.Text)
			}
			return m, nil
		}
	case bridge.TransportEventMsg:
		debug.Event("tui", "Transport", string(msg.Event.Payload.Type))
		return m, nil
	case welcome.LoginMsg:
		debug.Event("tui", "Login", "submitting token")
		return m, m.login(msg.Token)
	case loginDoneMsg:
		if msg.err != nil {
			m.welcome.SetNotice(loginFailureText(msg.err))
		}
		return m, nil
	case page.ChangeMsg:
		debug.Event("tui", "PageChange", fmt.Sprintf("page=%s", msg.Page))
		m.currentPage = msg.Page
		return m, nil
	}

	return m, m.routeToPage(msg)
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.welcome.SetSize(m.width, m.height)
	m.chatPage.SetSize(m.width, m.height)
}

// handleSnapshot keeps the chat page current and picks the page for the
// authentication state.
func (m *Model) handleSnapshot(msg bridge.SnapshotMsg) tea.Cmd {
	_, cmd := m.chatPage.Update(msg)

	signedIn := msg.Snapshot.State != store.StateUnauthenticated
	switch {
	case signedIn && m.currentPage != page.Chat:
		m.currentPage = page.Chat
		m.welcome.SetNotice("")
	case !signedIn && m.currentPage != page.Welcome:
		m.currentPage = page.Welcome
		return tea.Batch(cmd, m.welcome.Reset())
	}
	return cmd
}

func (m *Model) handleAuthEvent(ev events.AuthEvent) {
	debug.Event("tui", "Auth", string(ev.Type))
	if ev.Type != events.AuthEventRejected || m.welcome.Busy() {
		return
	}
	// A login in flight reports its own failure.
	m.welcome.SetNotice("Session expired. Please log in again.")
}

func (m *Model) login(token string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return loginDoneMsg{err: ctrl.Login(context.Background(), token)}
	}
}

func loginFailureText(err error) string {
	switch {
	case errors.Is(err, chatmodel.ErrAuth):
		return "That token was not accepted."
	case errors.Is(err, chatmodel.ErrNetwork):
		return "Could not reach the server. Try again."
	case errors.Is(err, chatmodel.ErrValidation):
		return "Enter a token."
	default:
		return "Login failed."
	}
}

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	switch m.currentPage {
	case page.Welcome:
		_, cmd := m.welcome.Update(msg)
		return cmd
	case page.Chat:
		_, cmd := m.chatPage.Update(msg)
		return cmd
	}
	return nil
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	switch m.currentPage {
	case page.Welcome:
		view.Content = m.welcome.View()
		view.Cursor = m.welcome.Cursor()
	case page.Chat:
		content := m.chatPage.View()
		debug.Event("tui", "View", fmt.Sprintf("chat content lines=%d", strings.Count(content, "\n")+1))
		view.Content = content
		view.Cursor = m.chatPage.Cursor()
	default:
		view.Content = "Unknown page"
	}
	return view
}

// CurrentPage returns the visible page.
func (m *Model) CurrentPage() page.ID {
	return m.currentPage
}

// Run starts the TUI program and blocks until it exits.
func Run(cfg *config.Config, ctrl Controller, hub *pubsub.Hub) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("aurora requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	manager := styles.NewManager()
	if cfg != nil && cfg.Options != nil && cfg.Options.Theme != "" {
		if err := manager.SetTheme(cfg.Options.Theme); err != nil {
			debug.Error("tui", err, "selecting theme")
		}
	}

	model := New(ctrl)
	// In Bubble Tea v2, AltScreen and MouseMode are set in View().
	p := tea.NewProgram(model)

	if hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tuiBridge := bridge.NewTUIBridge(hub, p)
		model.bridge = tuiBridge
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
