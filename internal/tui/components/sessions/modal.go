package sessions

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
	"github.com/parthgoyal01/aurora/internal/tui/util"
)

// ModalStep represents the current prompt of the modal.
type ModalStep int

const (
	// StepNewTitle asks for the title of a new chat.
	StepNewTitle ModalStep = iota
	// StepDeleteConfirm asks to confirm a delete.
	StepDeleteConfirm
)

// Modal asks the questions the coordinator leaves to the presentation:
// the title of a new chat and confirmation before a delete.
type Modal struct {
	titleInput   *TitleInput
	hints        *HintBar
	step         ModalStep
	visible      bool
	width        int
	height       int
	deleteTarget chat.Session
	problem      string
}

// New creates a new Modal.
func New() *Modal {
	return &Modal{
		titleInput: NewTitleInput(),
		hints:      NewHintBar(),
	}
}

// ShowNewTitle opens the title prompt.
func (m *Modal) ShowNewTitle() tea.Cmd {
	m.visible = true
	m.step = StepNewTitle
	m.problem = ""
	m.titleInput.Reset()
	m.hints.SetMode(HintModeTitle)
	return m.titleInput.Focus()
}

// ShowDeleteConfirm opens the delete confirmation for sess.
func (m *Modal) ShowDeleteConfirm(sess chat.Session) {
	m.visible = true
	m.step = StepDeleteConfirm
	m.deleteTarget = sess
	m.hints.SetMode(HintModeDelete)
}

// Hide hides the modal.
func (m *Modal) Hide() {
	m.visible = false
	m.titleInput.Reset()
	m.deleteTarget = chat.Session{}
	m.problem = ""
}

// IsVisible returns whether the modal is visible.
func (m *Modal) IsVisible() bool {
	return m.visible
}

// Step returns the active prompt.
func (m *Modal) Step() ModalStep {
	return m.step
}

// SetSize sets the modal size.
func (m *Modal) SetSize(width, height int) {
	m.width = width
	m.height = height

	innerWidth := min(width-10, 70)
	m.titleInput.SetWidth(innerWidth - 4)
	m.hints.SetWidth(innerWidth)
}

// Update handles messages.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.Hide()
		return m, util.CmdHandler(ModalClosedMsg{})
	}

	switch m.step {
	case StepNewTitle:
		return m.updateNewTitle(msg)
	case StepDeleteConfirm:
		return m.updateDeleteConfirm(msg)
	}
	return m, nil
}

func (m *Modal) updateNewTitle(msg tea.Msg) (*Modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.problem = "Please enter a title."
			return m, nil
		}
		m.Hide()
		return m, util.CmdHandler(CreateConfirmedMsg{Title: title})
	}

	m.problem = ""
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Modal) updateDeleteConfirm(msg tea.Msg) (*Modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		id := m.deleteTarget.ID
		m.Hide()
		return m, util.CmdHandler(DeleteConfirmedMsg{SessionID: id})
	case "n", "N":
		m.Hide()
		return m, util.CmdHandler(ModalClosedMsg{})
	}
	return m, nil
}

// View renders the modal.
func (m *Modal) View() string {
	if !m.visible {
		return ""
	}

	t := styles.CurrentTheme()

	var title, content string
	switch m.step {
	case StepNewTitle:
		title = "New Chat"
		content = m.titleInput.View()
		if m.problem != "" {
			content += "\n\n" + t.S().Error.Render(m.problem)
		}
	case StepDeleteConfirm:
		title = "Delete Chat"
		content = m.renderDeleteConfirm()
	}

	boxWidth := min(m.width-4, 74)
	contentWidth := boxWidth - 6

	titleStyle := t.S().Title.
		Width(contentWidth).
		Align(lipgloss.Center).
		MarginBottom(1)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Left)

	innerContent := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		contentStyle.Render(content),
		lipgloss.NewStyle().MarginTop(1).Render(m.hints.View()),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 2).
		Width(boxWidth).
		Render(innerContent)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (m *Modal) renderDeleteConfirm() string {
	t := styles.CurrentTheme()

	var sb strings.Builder
	sb.WriteString(t.S().Text.Render("Are you sure you want to delete "))
	sb.WriteString(t.S().Primary.Bold(true).Render(m.deleteTarget.Title))
	sb.WriteString(t.S().Text.Render("?"))
	sb.WriteString("\n\n")
	sb.WriteString(t.S().Warning.Render("This action cannot be undone."))
	return sb.String()
}

// Cursor returns the cursor position.
func (m *Modal) Cursor() *tea.Cursor {
	if m.visible && m.step == StepNewTitle {
		return m.titleInput.Cursor()
	}
	return nil
}
