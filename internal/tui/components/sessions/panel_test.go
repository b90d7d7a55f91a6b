package sessions

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestBorderedPanelDimensions(t *testing.T) {
	p := NewBorderedPanel()
	p.SetTitle("Chats")
	p.SetContent("first\nsecond line that is far too long for the panel")
	p.SetSize(20, 6)

	lines := strings.Split(p.View(), "\n")
	assert.Len(t, lines, 6)
	for _, line := range lines {
		assert.Equal(t, 20, ansi.StringWidth(line), "line %q", stripANSI(line))
	}
	assert.Contains(t, stripANSI(lines[0]), "Chats")
	assert.Contains(t, stripANSI(lines[2]), "…")
}

func TestBorderedPanelFooter(t *testing.T) {
	p := NewBorderedPanel()
	p.SetTitle("Chats")
	p.SetFooter("3 chats")
	p.SetSize(24, 5)

	lines := strings.Split(p.View(), "\n")
	bottom := lines[len(lines)-1]
	assert.Equal(t, 24, ansi.StringWidth(bottom))
	assert.True(t, strings.HasSuffix(stripANSI(bottom), " 3 chats ─╯"), "bottom %q", stripANSI(bottom))

	p.SetFooter("")
	lines = strings.Split(p.View(), "\n")
	assert.NotContains(t, stripANSI(lines[len(lines)-1]), "chats")
}

func TestBorderedPanelInnerSize(t *testing.T) {
	p := NewBorderedPanel()
	p.SetSize(30, 12)
	w, h := p.InnerSize()
	assert.Equal(t, 26, w)
	assert.Equal(t, 10, h)
}

func TestHintBarModes(t *testing.T) {
	h := NewHintBar()
	assert.Contains(t, h.Text(), "[n] new")

	h.SetMode(HintModeDelete)
	assert.Contains(t, h.Text(), "[y] yes")

	h.SetMode(HintModeComposer)
	assert.Contains(t, h.Text(), "[enter] send")
}
