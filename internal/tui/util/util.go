// Package util holds small helpers shared by the TUI components.
package util

import (
	tea "charm.land/bubbletea/v2"
)

// Model is a component that renders to a plain string.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
}

// InfoType classifies an InfoMsg.
type InfoType int

// Info levels.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeError
)

// InfoMsg is a status line message.
type InfoMsg struct {
	Type InfoType
	Msg  string
}

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportError returns a command that reports err as an InfoMsg.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeError, Msg: err.Error()})
}

// ReportInfo returns a command that reports an informational InfoMsg.
func ReportInfo(info string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeInfo, Msg: info})
}
