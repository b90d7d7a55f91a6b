// Package chat provides the chat page: the session sidebar, the message
// view, the composer and the status bar.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/parthgoyal01/aurora/internal/bridge"
	chatmodel "github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/store"
	"github.com/parthgoyal01/aurora/internal/tui/components/sessions"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
	"github.com/parthgoyal01/aurora/internal/tui/util"
)

const (
	sidebarWidth = 30
	noticeTTL    = 5 * time.Second
)

// Controller is the set of intents the chat page issues.
type Controller interface {
	Refresh(ctx context.Context) error
	SelectSession(ctx context.Context, id string) error
	CreateSession(ctx context.Context, title string) (chatmodel.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SetComposerText(text string) error
	Send() error
	Logout(ctx context.Context) error
}

// Intent names an asynchronous controller call.
type Intent string

// Intents run as commands.
const (
	IntentRefresh Intent = "refresh"
	IntentSelect  Intent = "select"
	IntentCreate  Intent = "create"
	IntentDelete  Intent = "delete"
	IntentLogout  Intent = "logout"
)

// IntentDoneMsg reports the outcome of an intent.
type IntentDoneMsg struct {
	Intent Intent
	Err    error
}

type noticeExpiredMsg struct {
	seq int
}

// ReplyCopiedMsg is sent after the last reply was put on the clipboard.
type ReplyCopiedMsg struct {
	Length int
}

type focusArea int

const (
	focusSidebar focusArea = iota
	focusComposer
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// Model is the chat page model.
type Model struct { //nolint:govet // fieldalignment: preserving logical field order
	ctrl     Controller
	snapshot store.Snapshot

	sidebar  *sessions.SessionList
	panel    *sessions.BorderedPanel
	modal    *sessions.Modal
	messages *MessageList
	input    *Input
	status   *StatusBar

	focus       focusArea
	sidebarOpen bool
	width       int
	height      int
}

// New creates a new chat page model.
func New(ctrl Controller) *Model {
	panel := sessions.NewBorderedPanel()
	panel.SetTitle("Chats")
	return &Model{
		ctrl:        ctrl,
		sidebar:     sessions.NewSessionList(),
		panel:       panel,
		modal:       sessions.New(),
		messages:    NewMessageList(),
		input:       NewInput(),
		status:      NewStatusBar(),
		focus:       focusSidebar,
		sidebarOpen: true,
	}
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

// Update handles messages.
//
//nolint:gocyclo // page routes every message type of the chat screen
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd

	case bridge.SnapshotMsg:
		return m, m.ApplySnapshot(msg.Snapshot)

	case bridge.NoticeMsg:
		return m, m.showNotice(msg.Event.Payload.Level, msg.Event.Payload.Text)

	case util.InfoMsg:
		level := events.NoticeInfo
		if msg.Type == util.InfoTypeError {
			level = events.NoticeError
		}
		return m, m.showNotice(level, msg.Msg)

	case noticeExpiredMsg:
		m.status.ExpireNotice(msg.seq)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		m.messages.SetTypingFrame(m.status.Frame())
		return m, cmd

	case sessions.SelectSessionMsg:
		if msg.SessionID == m.snapshot.ActiveSessionID {
			return m, m.focusComposer()
		}
		return m, m.run(IntentSelect, func(ctx context.Context) error {
			return m.ctrl.SelectSession(ctx, msg.SessionID)
		})

	case sessions.NewSessionMsg:
		return m, m.modal.ShowNewTitle()

	case sessions.DeleteSessionMsg:
		m.modal.ShowDeleteConfirm(msg.Session)
		return m, nil

	case sessions.CreateConfirmedMsg:
		return m, m.run(IntentCreate, func(ctx context.Context) error {
			_, err := m.ctrl.CreateSession(ctx, msg.Title)
			return err
		})

	case sessions.DeleteConfirmedMsg:
		return m, m.run(IntentDelete, func(ctx context.Context) error {
			return m.ctrl.DeleteSession(ctx, msg.SessionID)
		})

	case sessions.LogoutMsg:
		return m, m.run(IntentLogout, m.ctrl.Logout)

	case sessions.ModalClosedMsg:
		m.syncHints()
		return m, nil

	case IntentDoneMsg:
		return m, m.handleIntentDone(msg)

	case ReplyCopiedMsg:
		return m, m.showNotice(events.NoticeInfo, fmt.Sprintf("Copied last reply (%d chars).", msg.Length))
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd, _ = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+b":
		// Without an active session the sidebar is the only focus target.
		if !m.snapshot.HasActiveSession() {
			return m, nil
		}
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			return m, m.focusComposer()
		}
		return m, nil
	case "tab", "shift+tab":
		if m.focus == focusComposer {
			m.focusSidebar()
			return m, nil
		}
		if !m.snapshot.HasActiveSession() {
			return m, nil
		}
		return m, m.focusComposer()
	case "ctrl+n":
		return m, m.modal.ShowNewTitle()
	case "ctrl+r":
		return m, m.run(IntentRefresh, m.ctrl.Refresh)
	case "ctrl+y":
		return m, m.copyLastReply()
	case "pgup":
		m.messages.PageUp()
		return m, nil
	case "pgdown":
		m.messages.PageDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	if msg.String() == "enter" {
		return m, m.send()
	}

	var cmd tea.Cmd
	var changed bool
	m.input, cmd, changed = m.input.Update(msg)
	if changed {
		if err := m.ctrl.SetComposerText(m.input.Value()); err != nil {
			debug.Error("chat", err, "syncing composer")
		}
	}
	return m, cmd
}

// send pushes the composer text and sends it. The composer is cleared only
// once the send was accepted.
func (m *Model) send() tea.Cmd {
	if err := m.ctrl.SetComposerText(m.input.Value()); err != nil {
		debug.Error("chat", err, "syncing composer before send")
		return nil
	}
	err := m.ctrl.Send()
	switch {
	case err == nil:
		m.input.Clear()
		m.messages.ScrollToBottom()
		return nil
	case errors.Is(err, chatmodel.ErrValidation):
		debug.Event("chat", "send_rejected", err.Error())
		if m.snapshot.IsSending {
			return m.showNotice(events.NoticeInfo, "Wait for the reply before sending again.")
		}
		return nil
	default:
		// The coordinator already raised a notice for network failures.
		debug.Error("chat", err, "send")
		return nil
	}
}

func (m *Model) copyLastReply() tea.Cmd {
	reply, ok := m.snapshot.LastReply()
	if !ok {
		return m.showNotice(events.NoticeInfo, "No reply to copy yet.")
	}
	return func() tea.Msg {
		if err := writeClipboard(reply); err != nil {
			return util.InfoMsg{Type: util.InfoTypeError, Msg: "Could not copy to the clipboard."}
		}
		return ReplyCopiedMsg{Length: len([]rune(reply))}
	}
}

// run executes a blocking intent off the update loop.
func (m *Model) run(intent Intent, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		return IntentDoneMsg{Intent: intent, Err: err}
	}
}

// handleIntentDone moves focus to the composer once a chat was opened.
// Failures were already reported as notices by the coordinator.
func (m *Model) handleIntentDone(msg IntentDoneMsg) tea.Cmd {
	if msg.Err != nil {
		debug.Event("chat", "intent_failed", fmt.Sprintf("%s: %v", msg.Intent, msg.Err))
		return nil
	}
	debug.Event("chat", "intent_done", string(msg.Intent))
	switch msg.Intent {
	case IntentSelect, IntentCreate:
		return m.focusComposer()
	case IntentRefresh, IntentDelete, IntentLogout:
	}
	return nil
}

func (m *Model) showNotice(level events.NoticeLevel, text string) tea.Cmd {
	seq := m.status.SetNotice(level, text)
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// ApplySnapshot renders a new store snapshot.
func (m *Model) ApplySnapshot(snap store.Snapshot) tea.Cmd {
	if snap.Version != 0 && snap.Version < m.snapshot.Version {
		return nil
	}
	lostActive := m.snapshot.HasActiveSession() && !snap.HasActiveSession()
	m.snapshot = snap

	m.sidebar.SetSessions(snap.Sessions, snap.ActiveSessionID)
	m.panel.SetFooter(chatCount(len(snap.Sessions)))
	m.messages.SetMessages(snap.Messages)
	m.messages.SetSending(snap.IsSending)
	m.input.SetWaiting(snap.IsSending)
	m.status.SetConnected(snap.Connected)

	var cmds []tea.Cmd
	cmds = append(cmds, m.status.SetSending(snap.IsSending))

	if lostActive {
		m.focusSidebar()
	}
	m.syncHints()
	return tea.Batch(cmds...)
}

func chatCount(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return "1 chat"
	}
	return fmt.Sprintf("%d chats", n)
}

func (m *Model) focusComposer() tea.Cmd {
	m.focus = focusComposer
	m.syncHints()
	return m.input.Focus()
}

func (m *Model) focusSidebar() {
	m.focus = focusSidebar
	m.sidebarOpen = true
	m.input.Blur()
	m.syncHints()
}

func (m *Model) syncHints() {
	if m.focus == focusComposer {
		m.status.SetHintMode(sessions.HintModeComposer)
		return
	}
	m.status.SetHintMode(sessions.HintModeSidebar)
}

// View renders the chat page.
func (m *Model) View() string {
	if m.modal.IsVisible() {
		m.modal.SetSize(m.width, m.height)
		return m.modal.View()
	}

	mainWidth := m.width
	var sidebarView string
	if m.sidebarOpen {
		sw := min(sidebarWidth, m.width/2)
		mainWidth = m.width - sw
		m.panel.SetSize(sw, m.height-1)
		m.panel.SetFocused(m.focus == focusSidebar)
		m.sidebar.SetSize(m.panel.InnerSize())
		m.panel.SetContent(m.sidebar.View())
		sidebarView = m.panel.View()
	}

	header := m.renderHeader(mainWidth)
	composer := m.renderComposer(mainWidth)

	bodyHeight := m.height - 1 - lipgloss.Height(header) - lipgloss.Height(composer)
	m.messages.SetSize(mainWidth-2, max(bodyHeight, 1))
	body := lipgloss.NewStyle().Padding(0, 1).Render(m.messages.View())

	main := lipgloss.JoinVertical(lipgloss.Left, header, body, composer)
	if sidebarView != "" {
		main = lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, main)
	}

	m.status.SetWidth(m.width)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.status.View())
}

func (m *Model) renderHeader(width int) string {
	t := styles.CurrentTheme()

	title := "aurora"
	if sess, ok := m.snapshot.ActiveSession(); ok {
		title = sess.Title
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render(t.S().Title.Render(title))
}

// renderComposer shows the input only when a session is active.
func (m *Model) renderComposer(width int) string {
	t := styles.CurrentTheme()

	if !m.snapshot.HasActiveSession() {
		return lipgloss.NewStyle().
			Width(width).
			Padding(0, 1).
			Render(t.S().Muted.Render("Select a chat or press n to start a new one."))
	}
	m.input.SetWidth(width)
	return m.input.View()
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.modal.SetSize(width, height)
}

// Cursor returns the cursor position.
func (m *Model) Cursor() *tea.Cursor {
	if m.modal.IsVisible() {
		return m.modal.Cursor()
	}
	if m.focus == focusComposer && !m.snapshot.IsSending {
		return m.input.Cursor()
	}
	return nil
}

// Snapshot returns the last rendered snapshot.
func (m *Model) Snapshot() store.Snapshot {
	return m.snapshot
}
