// Package logo renders the aurora wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

const auroraLogo = `
 ▄▀█ █ █ █▀█ █▀█ █▀█ ▄▀█
 █▀█ █▄█ █▀▄ █▄█ █▀▄ █▀█
`

const auroraLogoSmall = `aurora`

// Render returns the logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	logo := strings.Trim(auroraLogo, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Accent)
}

// RenderSmall returns the one-line wordmark.
func RenderSmall() string {
	t := styles.CurrentTheme()
	return styles.ApplyForegroundGrad(auroraLogoSmall, t.Primary, t.Accent)
}

// RenderWithTagline returns the logo with a tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	tagline := t.S().Muted.Render("Chat from your terminal")
	return lipgloss.JoinVertical(lipgloss.Center, Render(), "", tagline)
}

// Width returns the width of the full logo.
func Width() int {
	return lipgloss.Width(strings.Trim(auroraLogo, "\n"))
}
