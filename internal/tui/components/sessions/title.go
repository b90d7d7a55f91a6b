package sessions

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// TitleInput is a text input for naming a new chat.
type TitleInput struct {
	input textinput.Model
	width int
}

// NewTitleInput creates a new title input.
func NewTitleInput() *TitleInput {
	ti := textinput.New()
	ti.Placeholder = "Enter a title for the new chat..."
	ti.CharLimit = 100
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &TitleInput{
		input: ti,
	}
}

// SetWidth sets the input width.
func (r *TitleInput) SetWidth(width int) {
	r.width = width
	r.input.SetWidth(max(width-4, 1))
}

// Value returns the current input value.
func (r *TitleInput) Value() string {
	return r.input.Value()
}

// Focus focuses the input.
func (r *TitleInput) Focus() tea.Cmd {
	return r.input.Focus()
}

// Reset clears the input.
func (r *TitleInput) Reset() {
	r.input.SetValue("")
	r.input.Blur()
}

// Update handles messages.
func (r *TitleInput) Update(msg tea.Msg) (*TitleInput, tea.Cmd) {
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

// View renders the input.
func (r *TitleInput) View() string {
	t := styles.CurrentTheme()

	label := t.S().Text.Render("Title: ")
	return label + "\n\n" + r.input.View()
}

// Cursor returns the cursor position.
func (r *TitleInput) Cursor() *tea.Cursor {
	return r.input.Cursor()
}
