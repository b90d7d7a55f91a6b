// Package chat holds the domain types shared by the session synchronization
// components: sessions, messages and the error taxonomy.
package chat

import "strings"

// Origin identifies who authored a message.
type Origin string

// Origin constants.
const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// OriginFromRole maps a backend role to a message origin.
// Only "user" is attributed to the user; every other role is the assistant.
func OriginFromRole(role string) Origin {
	if role == string(OriginUser) {
		return OriginUser
	}
	return OriginAssistant
}

// Session is a named chat conversation.
type Session struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Message is one turn in a session.
type Message struct {
	Origin  Origin `json:"origin" yaml:"origin"`
	Content string `json:"content" yaml:"content"`
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(content string) Message {
	return Message{Origin: OriginUser, Content: content}
}

// NewAssistantMessage creates a message authored by the assistant.
func NewAssistantMessage(content string) Message {
	return Message{Origin: OriginAssistant, Content: content}
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
