package chat

import (
	"regexp"
	"testing"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes SGR escape codes for content assertions.
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestMarkdownRenderer_Render(t *testing.T) {
	r := NewMarkdownRenderer()

	tests := []struct {
		name     string
		content  string
		contains []string
	}{
		{name: "plain reply", content: "Sure, here you go.", contains: []string{"Sure, here you go."}},
		{name: "header", content: "# Packing list", contains: []string{"Packing list"}},
		{name: "code block", content: "```go\nfmt.Println(\"hi\")\n```", contains: []string{"fmt", "Println"}},
		{name: "list", content: "- tent\n- stove", contains: []string{"tent", "stove"}},
		{name: "emphasis", content: "This is **important**", contains: []string{"important"}},
		{name: "link", content: "See [the docs](https://example.com)", contains: []string{"the docs"}},
		{name: "quote", content: "> quoted", contains: []string{"quoted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.content, 60)
			require.NoError(t, err)
			stripped := stripANSI(got)
			for _, substr := range tt.contains {
				assert.Contains(t, stripped, substr)
			}
		})
	}
}

func TestMarkdownRenderer_Empty(t *testing.T) {
	got, err := NewMarkdownRenderer().Render("", 80)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkdownRenderer_Cache(t *testing.T) {
	t.Cleanup(func() { styles.NewManager() })
	manager := styles.NewManager()
	r := NewMarkdownRenderer()

	current := func() *glamour.TermRenderer {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.renderer
	}

	_, err := r.Render("# One", 80)
	require.NoError(t, err)
	first := current()
	require.NotNil(t, first)

	_, err = r.Render("# Two", 80)
	require.NoError(t, err)
	assert.Same(t, first, current(), "same width and theme reuse the renderer")

	_, err = r.Render("# Three", 40)
	require.NoError(t, err)
	second := current()
	assert.NotSame(t, first, second)

	require.NoError(t, manager.SetTheme("dawn"))
	_, err = r.Render("# Four", 40)
	require.NoError(t, err)
	assert.NotSame(t, second, current(), "a theme switch rebuilds the renderer")
}

func TestBuildStyle_LeavesBaseStyleUntouched(t *testing.T) {
	before := *glamourstyles.DarkStyleConfig.CodeBlock.Chroma

	style := buildStyle(styles.NewDefaultTheme())
	require.NotNil(t, style.CodeBlock.Chroma)
	assert.Equal(t, before, *glamourstyles.DarkStyleConfig.CodeBlock.Chroma)
	assert.Empty(t, style.H1.Prefix)
	require.NotNil(t, style.Document.Margin)
	assert.Zero(t, *style.Document.Margin)
}

func TestMarkdownRenderer_LightTheme(t *testing.T) {
	m := styles.NewManager()
	require.NoError(t, m.SetTheme("dawn"))
	t.Cleanup(func() { styles.NewManager() })

	got, err := NewMarkdownRenderer().Render("Hello **there**", 20)
	require.NoError(t, err)
	assert.Contains(t, stripANSI(got), "there")
}
