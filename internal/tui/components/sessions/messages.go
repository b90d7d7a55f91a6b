package sessions

import "github.com/parthgoyal01/aurora/internal/chat"

// SelectSessionMsg is sent when a session is opened from the sidebar.
type SelectSessionMsg struct {
	SessionID string
}

// NewSessionMsg asks for the new-chat title prompt.
type NewSessionMsg struct{}

// DeleteSessionMsg asks for delete confirmation of a session.
type DeleteSessionMsg struct {
	Session chat.Session
}

// LogoutMsg is sent when the logout entry is chosen.
type LogoutMsg struct{}

// CreateConfirmedMsg is sent when a title was entered for a new chat.
type CreateConfirmedMsg struct {
	Title string
}

// DeleteConfirmedMsg is sent when the user confirmed a delete.
type DeleteConfirmedMsg struct {
	SessionID string
}

// ModalClosedMsg is sent when the modal is closed without a decision.
type ModalClosedMsg struct{}
