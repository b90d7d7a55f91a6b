// Package welcome provides the signed-out screen where a session token is entered.
package welcome

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/tui/components/logo"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
	"github.com/parthgoyal01/aurora/internal/tui/util"
)

// LoginMsg is sent when the user submits a token.
type LoginMsg struct {
	Token string
}

// Welcome displays the welcome screen.
type Welcome struct {
	input  textinput.Model
	notice string
	busy   bool
	width  int
	height int
}

// New creates a new welcome screen.
func New() *Welcome {
	t := styles.CurrentTheme()
	ti := textinput.New()
	ti.Placeholder = "Paste your session token..."
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 4096
	ti.SetStyles(t.S().TextInput)
	ti.Focus()

	return &Welcome{input: ti}
}

// Init initializes the welcome screen.
func (w *Welcome) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (w *Welcome) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			token := strings.TrimSpace(w.input.Value())
			if token == "" || w.busy {
				return w, nil
			}
			w.busy = true
			w.notice = ""
			return w, util.CmdHandler(LoginMsg{Token: token})
		case "esc":
			return w, tea.Quit
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// SetNotice shows a message under the token field and re-enables input.
func (w *Welcome) SetNotice(text string) {
	w.notice = text
	w.busy = false
}

// Reset clears the token field and any pending state.
func (w *Welcome) Reset() tea.Cmd {
	w.busy = false
	w.input.Reset()
	return w.input.Focus()
}

// Busy reports whether a login is in flight.
func (w *Welcome) Busy() bool {
	return w.busy
}

// View renders the welcome screen.
func (w *Welcome) View() string {
	t := styles.CurrentTheme()

	fieldWidth := min(max(w.width-10, 20), 60)
	w.input.SetWidth(fieldWidth - 4)
	field := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(fieldWidth).
		Render(w.input.View())

	messages := []string{
		t.S().Text.Render("Welcome to aurora."),
		"",
		t.S().Muted.Render("Log in on the web, then paste the session token below."),
	}

	parts := []string{
		logo.Render(),
		"",
		lipgloss.JoinVertical(lipgloss.Center, messages...),
		"",
		field,
	}

	switch {
	case w.busy:
		parts = append(parts, t.S().Info.Render("Signing in..."))
	case w.notice != "":
		parts = append(parts, t.S().Error.Render(w.notice))
	default:
		parts = append(parts, "")
	}
	parts = append(parts, "", t.S().Muted.Render("Enter to log in • Esc to quit"))

	return lipgloss.Place(
		w.width, w.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...),
	)
}

// SetSize sets the welcome screen size.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Cursor returns the token field cursor.
func (w *Welcome) Cursor() *tea.Cursor {
	if w.busy {
		return nil
	}
	return w.input.Cursor()
}
