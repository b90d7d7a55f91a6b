package sessions

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// BorderedPanel renders content inside a bordered box with a centered title
// and an optional right-aligned footer in the bottom border.
type BorderedPanel struct {
	title   string
	footer  string
	content string
	width   int
	height  int
	focused bool
}

// NewBorderedPanel creates a new bordered panel.
func NewBorderedPanel() *BorderedPanel {
	return &BorderedPanel{}
}

// SetTitle sets the title to display in the top border.
func (p *BorderedPanel) SetTitle(title string) {
	p.title = title
}

// SetFooter sets the label drawn into the bottom border.
func (p *BorderedPanel) SetFooter(footer string) {
	p.footer = footer
}

// SetContent sets the content to render inside the panel.
func (p *BorderedPanel) SetContent(content string) {
	p.content = content
}

// SetSize sets the panel dimensions.
func (p *BorderedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether the panel has focus (affects border color).
func (p *BorderedPanel) SetFocused(focused bool) {
	p.focused = focused
}

// InnerSize returns the space available to content.
func (p *BorderedPanel) InnerSize() (width, height int) {
	return max(p.width-4, 2), max(p.height-2, 1)
}

// View renders the bordered panel.
func (p *BorderedPanel) View() string {
	t := styles.CurrentTheme()

	borderColor := t.Border
	if p.focused {
		borderColor = t.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := t.S().Primary.Bold(true)

	// ╭ + inner + ╮ = width
	borderWidth := max(p.width-2, 4)
	contentWidth := borderWidth - 2

	title := p.title
	if title != "" {
		title = " " + ansi.Truncate(title, max(borderWidth-6, 1), "…") + " "
	}
	titleRendered := titleStyle.Render(title)
	remainingSpace := max(borderWidth-lipgloss.Width(titleRendered), 0)
	leftPadding := remainingSpace / 2
	rightPadding := remainingSpace - leftPadding

	topBorder := borderStyle.Render("╭"+strings.Repeat("─", leftPadding)) +
		titleRendered +
		borderStyle.Render(strings.Repeat("─", rightPadding)+"╮")
	bottomBorder := p.bottomBorder(borderStyle, borderWidth)

	contentLines := strings.Split(p.content, "\n")
	contentHeight := max(p.height-2, 1)

	borderedLines := make([]string, 0, contentHeight+2)
	borderedLines = append(borderedLines, topBorder)
	for i := 0; i < contentHeight; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		line = fitToWidth(line, contentWidth)
		borderedLines = append(borderedLines,
			borderStyle.Render("│ ")+line+borderStyle.Render(" │"))
	}
	borderedLines = append(borderedLines, bottomBorder)

	return strings.Join(borderedLines, "\n")
}

func (p *BorderedPanel) bottomBorder(borderStyle lipgloss.Style, borderWidth int) string {
	if p.footer == "" || borderWidth < 8 {
		return borderStyle.Render("╰" + strings.Repeat("─", borderWidth) + "╯")
	}
	footer := " " + ansi.Truncate(p.footer, borderWidth-4, "…") + " "
	rendered := styles.CurrentTheme().S().Muted.Render(footer)
	left := max(borderWidth-lipgloss.Width(rendered)-1, 0)
	return borderStyle.Render("╰"+strings.Repeat("─", left)) +
		rendered +
		borderStyle.Render("─╯")
}

// fitToWidth pads or truncates a possibly styled line to an exact visual width.
func fitToWidth(s string, width int) string {
	w := ansi.StringWidth(s)
	switch {
	case w < width:
		return s + strings.Repeat(" ", width-w)
	case w > width:
		return ansi.Truncate(s, width, "…")
	}
	return s
}
