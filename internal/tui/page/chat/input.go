package chat

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

const (
	composerLimit       = 4096
	composerPlaceholder = "Type a message..."
	waitingPlaceholder  = "Waiting for the reply..."
)

// Input is the message composer.
type Input struct {
	textInput textinput.Model
	width     int
	focused   bool
	waiting   bool
}

// NewInput creates a new composer.
func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = composerPlaceholder
	ti.CharLimit = composerLimit
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &Input{textInput: ti}
}

// Init initializes the input.
func (i *Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events. It reports whether the text changed.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd, bool) {
	if !i.focused {
		return i, nil, false
	}

	before := i.textInput.Value()
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd, i.textInput.Value() != before
}

// SetWaiting swaps the placeholder while a reply is pending. Typing stays
// possible; sending is refused upstream.
func (i *Input) SetWaiting(waiting bool) {
	i.waiting = waiting
	if waiting {
		i.textInput.Placeholder = waitingPlaceholder
		return
	}
	i.textInput.Placeholder = composerPlaceholder
}

// View renders the input.
func (i *Input) View() string {
	t := styles.CurrentTheme()

	border := t.Border
	if i.focused {
		border = t.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(i.width-2, 4)).
		Render(i.textInput.View())

	counter := i.counter()
	if counter == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Right, box, counter)
}

// counter shows the remaining length once the text nears the limit.
func (i *Input) counter() string {
	n := len([]rune(i.textInput.Value()))
	if n < composerLimit*4/5 {
		return ""
	}
	t := styles.CurrentTheme()
	text := fmt.Sprintf("%d/%d", n, composerLimit)
	if n >= composerLimit {
		return t.S().Error.Render(text)
	}
	return t.S().Warning.Render(text)
}

// SetWidth sets the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.SetWidth(max(width-8, 1)) // border, padding and prompt
}

// Value returns the current input value.
func (i *Input) Value() string {
	return i.textInput.Value()
}

// SetValue replaces the text and moves the cursor to its end.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
	i.textInput.CursorEnd()
}

// Clear empties the composer.
func (i *Input) Clear() {
	i.textInput.Reset()
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	i.focused = true
	return i.textInput.Focus()
}

// Blur removes focus from the input.
func (i *Input) Blur() {
	i.focused = false
	i.textInput.Blur()
}

// Focused reports whether the input has focus.
func (i *Input) Focused() bool {
	return i.focused
}

// Cursor returns the cursor for the input.
func (i *Input) Cursor() *tea.Cursor {
	return i.textInput.Cursor()
}
