// Package sessions provides the chat sidebar and its prompts.
package sessions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
	"github.com/parthgoyal01/aurora/internal/tui/util"
)

const logoutLabel = "Log out"

// SessionList displays the sessions with navigation. The row after the last
// session is the logout entry.
type SessionList struct {
	sessions []chat.Session
	activeID string
	cursor   int
	width    int
	height   int
	offset   int // Scroll offset
}

// NewSessionList creates a new session list.
func NewSessionList() *SessionList {
	return &SessionList{}
}

// SetSessions replaces the list. The cursor stays on the session it was on
// when that session is still present.
func (l *SessionList) SetSessions(sessions []chat.Session, activeID string) {
	var prev string
	if sel, ok := l.Selected(); ok {
		prev = sel.ID
	}

	l.sessions = sessions
	l.activeID = activeID

	switch {
	case prev != "" && l.indexOf(prev) >= 0:
		l.cursor = l.indexOf(prev)
	case activeID != "" && l.indexOf(activeID) >= 0:
		l.cursor = l.indexOf(activeID)
	case l.cursor > len(l.sessions):
		l.cursor = len(l.sessions)
	}
	l.ensureVisible()
}

func (l *SessionList) indexOf(id string) int {
	for i, s := range l.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SetSize sets the list dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Selected returns the session under the cursor.
func (l *SessionList) Selected() (chat.Session, bool) {
	if l.cursor >= 0 && l.cursor < len(l.sessions) {
		return l.sessions[l.cursor], true
	}
	return chat.Session{}, false
}

// OnLogout reports whether the cursor is on the logout entry.
func (l *SessionList) OnLogout() bool {
	return l.cursor == len(l.sessions)
}

// Len returns the number of sessions.
func (l *SessionList) Len() int {
	return len(l.sessions)
}

// Update handles messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.sessions) {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.offset = 0
	case "end", "G":
		l.cursor = len(l.sessions)
		l.ensureVisible()
	case "enter":
		if l.OnLogout() {
			return l, util.CmdHandler(LogoutMsg{})
		}
		if selected, ok := l.Selected(); ok {
			return l, util.CmdHandler(SelectSessionMsg{SessionID: selected.ID})
		}
	case "n":
		return l, util.CmdHandler(NewSessionMsg{})
	case "d", "delete":
		if selected, ok := l.Selected(); ok {
			return l, util.CmdHandler(DeleteSessionMsg{Session: selected})
		}
	}

	return l, nil
}

func (l *SessionList) ensureVisible() {
	visibleRows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visibleRows {
		l.offset = l.cursor - visibleRows + 1
	}
}

// visibleRows is the number of session rows that fit next to the two
// scroll indicators and the logout entry with its spacer.
func (l *SessionList) visibleRows() int {
	return max(1, l.height-4)
}

// View renders the session list.
func (l *SessionList) View() string {
	t := styles.CurrentTheme()

	var rows []string
	if len(l.sessions) == 0 {
		rows = append(rows, t.S().Muted.Render("No chats yet."))
	} else {
		visibleRows := l.visibleRows()
		endIdx := min(l.offset+visibleRows, len(l.sessions))
		if l.offset > 0 {
			rows = append(rows, t.S().Muted.Render(fmt.Sprintf("↑ %d more", l.offset)))
		}
		for i := l.offset; i < endIdx; i++ {
			rows = append(rows, l.renderSession(l.sessions[i], i == l.cursor))
		}
		if remaining := len(l.sessions) - endIdx; remaining > 0 {
			rows = append(rows, t.S().Muted.Render(fmt.Sprintf("↓ %d more", remaining)))
		}
	}

	// Pad so the logout entry sits at the bottom.
	for len(rows) < l.height-1 {
		rows = append(rows, "")
	}

	logout := t.S().Muted.Render("  " + logoutLabel)
	if l.OnLogout() {
		logout = t.S().Error.Bold(true).Render("> " + logoutLabel)
	}
	rows = append(rows, logout)

	return lipgloss.NewStyle().Width(l.width).Render(strings.Join(rows, "\n"))
}

func (l *SessionList) renderSession(sess chat.Session, selected bool) string {
	t := styles.CurrentTheme()

	title := strings.ReplaceAll(sess.Title, "\n", " ")
	title = ansi.Truncate(title, max(l.width-3, 1), "…")

	marker := "  "
	if sess.ID == l.activeID {
		marker = "● "
	}

	if selected {
		return t.S().Primary.Bold(true).Render("> ") + t.S().Primary.Bold(true).Render(title)
	}
	if sess.ID == l.activeID {
		return t.S().Primary.Render(marker) + t.S().Text.Render(title)
	}
	return t.S().Text.Render(marker + title)
}
