package chat

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	chatmodel "github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

const welcomeBlurb = "Ask anything. Paste text, brainstorm ideas, or get quick explanations. " +
	"Your chats stay in the sidebar so you can pick up where you left off."

// MessageList displays the active session's conversation.
type MessageList struct { //nolint:govet // fieldalignment: preserving logical field order
	messages []chatmodel.Message
	sending  bool
	typing   string // spinner frame shown while a reply is pending

	viewport viewport.Model
	markdown *MarkdownRenderer
	rendered string
	dirty    bool

	width  int
	height int
}

// NewMessageList creates a new message list component.
func NewMessageList() *MessageList {
	return &MessageList{
		viewport: viewport.New(),
		markdown: NewMarkdownRenderer(),
	}
}

// SetMessages replaces the conversation. The view follows new messages when
// it was already at the bottom.
func (m *MessageList) SetMessages(messages []chatmodel.Message) {
	if sameMessages(m.messages, messages) {
		return
	}
	follow := m.viewport.AtBottom() || len(messages) < len(m.messages)
	m.messages = messages
	m.dirty = true
	if follow {
		m.refresh()
		m.viewport.GotoBottom()
	}
}

func sameMessages(a, b []chatmodel.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetSending toggles the typing indicator.
func (m *MessageList) SetSending(sending bool) {
	m.sending = sending
}

// SetTypingFrame sets the spinner frame of the typing indicator.
func (m *MessageList) SetTypingFrame(frame string) {
	m.typing = frame
}

// Len returns the number of messages.
func (m *MessageList) Len() int {
	return len(m.messages)
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	if width != m.width {
		m.dirty = true
	}
	m.width = width
	m.height = height
	m.viewport.SetWidth(width)
	m.viewport.SetHeight(height)
}

// Update routes scroll input to the viewport.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// PageUp scrolls up one page.
func (m *MessageList) PageUp() { m.viewport.PageUp() }

// PageDown scrolls down one page.
func (m *MessageList) PageDown() { m.viewport.PageDown() }

// ScrollToBottom jumps to the newest message.
func (m *MessageList) ScrollToBottom() { m.viewport.GotoBottom() }

// IsEmpty reports whether the welcome view is showing.
func (m *MessageList) IsEmpty() bool {
	return len(m.messages) == 0 && !m.sending
}

// View renders the message list.
func (m *MessageList) View() string {
	if m.IsEmpty() {
		return m.renderWelcome()
	}

	m.refresh()
	content := m.rendered
	if m.sending {
		content += "\n\n" + m.renderTyping()
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m.viewport.View()
}

func (m *MessageList) refresh() {
	if !m.dirty {
		return
	}
	rendered := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg))
	}
	m.rendered = strings.Join(rendered, "\n\n")
	m.dirty = false
}

func (m *MessageList) contentWidth() int {
	return max(m.width-2, 10)
}

func (m *MessageList) renderMessage(msg chatmodel.Message) string {
	switch msg.Origin {
	case chatmodel.OriginUser:
		return m.renderUserMessage(msg)
	default:
		return m.renderAssistantMessage(msg)
	}
}

func (m *MessageList) renderUserMessage(msg chatmodel.Message) string {
	t := styles.CurrentTheme()

	header := t.S().Text.Bold(true).Render("You")
	content := t.S().Text.Width(m.contentWidth()).Render(msg.Content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (m *MessageList) renderAssistantMessage(msg chatmodel.Message) string {
	t := styles.CurrentTheme()

	header := t.S().Primary.Bold(true).Render("Assistant")
	content, err := m.markdown.Render(msg.Content, m.contentWidth())
	if err != nil {
		debug.Error("chat", err, "rendering reply markdown")
		content = t.S().Text.Width(m.contentWidth()).Render(msg.Content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(content, "\n"))
}

func (m *MessageList) renderTyping() string {
	t := styles.CurrentTheme()

	header := t.S().Primary.Bold(true).Render("Assistant")
	line := t.S().Muted.Render(strings.TrimSpace(m.typing + " typing..."))
	return lipgloss.JoinVertical(lipgloss.Left, header, line)
}

func (m *MessageList) renderWelcome() string {
	t := styles.CurrentTheme()

	chip := lipgloss.NewStyle().
		Foreground(t.BgBase).
		Background(t.Accent).
		Padding(0, 1).
		Render("Early Preview")
	title := styles.ApplyForegroundGrad("Aurora", t.Primary, t.Accent)
	blurb := t.S().Muted.
		Width(min(m.contentWidth(), 60)).
		Align(lipgloss.Center).
		Render(welcomeBlurb)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, chip, "", lipgloss.NewStyle().Bold(true).Render(title), "", blurb))
}
