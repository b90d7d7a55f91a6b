package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func typeText(w *Welcome, text string) {
	for _, r := range text {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestWelcomeSubmitsToken(t *testing.T) {
	w := New()
	typeText(w, "  tok-123 ")

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(LoginMsg)
	if !ok {
		t.Fatalf("expected LoginMsg, got %T", cmd())
	}
	if msg.Token != "tok-123" {
		t.Errorf("expected trimmed token, got %q", msg.Token)
	}
	if !w.Busy() {
		t.Error("expected welcome to be busy after submit")
	}

	// A second enter while busy does nothing.
	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command while busy")
	}
}

func TestWelcomeIgnoresBlankToken(t *testing.T) {
	w := New()
	typeText(w, "   ")

	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for a blank token")
	}
}

func TestWelcomeNotice(t *testing.T) {
	w := New()
	w.SetSize(100, 30)
	typeText(w, "tok")
	w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	w.SetNotice("Session expired. Please log in again.")

	if w.Busy() {
		t.Error("notice should re-enable input")
	}
	if !strings.Contains(w.View(), "Session expired") {
		t.Error("expected notice in view")
	}
}

func TestWelcomeReset(t *testing.T) {
	w := New()
	typeText(w, "tok")
	w.Reset()

	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected the field to be empty after reset")
	}
}
