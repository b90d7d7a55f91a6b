// Package page names the top-level screens of the TUI.
package page

// ID identifies a page.
type ID string

// Pages.
const (
	Welcome ID = "welcome"
	Chat    ID = "chat"
)

// ChangeMsg asks the root model to switch pages.
type ChangeMsg struct {
	Page ID
}
