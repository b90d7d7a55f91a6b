package chat

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestInput_IgnoresKeysWhenBlurred(t *testing.T) {
	in := NewInput()

	_, _, changed := in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.False(t, changed)
	assert.Empty(t, in.Value())

	in.Focus()
	_, _, changed = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.True(t, changed)
	assert.Equal(t, "a", in.Value())

	// Cursor movement is not a change.
	_, _, changed = in.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.False(t, changed)
}

func TestInput_WaitingPlaceholder(t *testing.T) {
	in := NewInput()
	in.SetWidth(60)

	in.SetWaiting(true)
	assert.Contains(t, stripANSI(in.View()), "Waiting for the reply")

	in.SetWaiting(false)
	assert.Contains(t, stripANSI(in.View()), "Type a message")
}

func TestInput_Counter(t *testing.T) {
	in := NewInput()
	in.SetWidth(60)

	in.SetValue("short")
	assert.NotContains(t, stripANSI(in.View()), "/4096")

	in.SetValue(strings.Repeat("x", composerLimit-10))
	assert.Contains(t, stripANSI(in.View()), "4086/4096")

	in.Clear()
	assert.Empty(t, in.Value())
}
