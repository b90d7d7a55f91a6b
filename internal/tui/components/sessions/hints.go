package sessions

import (
	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// HintMode represents the current mode for hint display.
type HintMode int

const (
	// HintModeSidebar shows hints while the sidebar has focus.
	HintModeSidebar HintMode = iota
	// HintModeComposer shows hints while typing a message.
	HintModeComposer
	// HintModeTitle shows hints for the new chat prompt.
	HintModeTitle
	// HintModeDelete shows hints for delete confirmation.
	HintModeDelete
)

// HintBar displays context-sensitive keyboard hints.
type HintBar struct {
	mode  HintMode
	width int
}

// NewHintBar creates a new hint bar.
func NewHintBar() *HintBar {
	return &HintBar{
		mode: HintModeSidebar,
	}
}

// SetMode sets the current hint mode.
func (h *HintBar) SetMode(mode HintMode) {
	h.mode = mode
}

// SetWidth sets the hint bar width.
func (h *HintBar) SetWidth(width int) {
	h.width = width
}

// Text returns the hints for the current mode.
func (h *HintBar) Text() string {
	switch h.mode {
	case HintModeSidebar:
		return "[enter] open  [n] new  [d] delete  [tab] composer  [ctrl+b] sidebar"
	case HintModeComposer:
		return "[enter] send  [tab] sidebar  [ctrl+y] copy reply  [ctrl+b] sidebar"
	case HintModeTitle:
		return "[enter] create  [esc] cancel"
	case HintModeDelete:
		return "[y] yes  [n] no  [esc] cancel"
	}
	return ""
}

// View renders the hint bar.
func (h *HintBar) View() string {
	t := styles.CurrentTheme()

	hintStyle := t.S().Muted.
		Width(h.width).
		Align(lipgloss.Center)

	return hintStyle.Render(h.Text())
}
