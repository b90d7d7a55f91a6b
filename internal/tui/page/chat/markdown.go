package chat

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// MarkdownRenderer renders assistant replies. The glamour renderer is
// rebuilt only when the width or the theme changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	theme    string
	mu       sync.Mutex
}

// NewMarkdownRenderer creates a new markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render renders markdown content to styled terminal output. On failure the
// plain content is returned along with the error.
func (m *MarkdownRenderer) Render(content string, width int) (string, error) {
	if content == "" {
		return "", nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensure(width, styles.CurrentTheme()); err != nil {
		return content, err
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}

func (m *MarkdownRenderer) ensure(width int, t *styles.Theme) error {
	if m.renderer != nil && m.width == width && m.theme == t.Name {
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyle(t)),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
		glamour.WithColorProfile(termenv.TrueColor),
	)
	if err != nil {
		return err
	}
	m.renderer = renderer
	m.width = width
	m.theme = t.Name
	return nil
}

// buildStyle derives a glamour style from a theme: headings without "#"
// prefixes, no document margin, theme colors for code, links and quotes.
func buildStyle(t *styles.Theme) ansi.StyleConfig {
	style := glamourstyles.DarkStyleConfig
	if !t.IsDark {
		style = glamourstyles.LightStyleConfig
	}

	var zero uint
	style.Document.Margin = &zero

	headings := []struct {
		block *ansi.StyleBlock
		color color.Color
		bold  bool
	}{
		{&style.H1, t.Accent, true},
		{&style.H2, t.Primary, true},
		{&style.H3, t.Secondary, true},
		{&style.H4, t.Secondary, false},
		{&style.H5, t.FgMuted, false},
		{&style.H6, t.FgMuted, false},
	}
	for _, h := range headings {
		h.block.Color = hex(h.color)
		h.block.Prefix = ""
		h.block.Suffix = ""
		if h.bold {
			h.block.Bold = ptr(true)
		}
	}

	style.Code.Color = hex(t.Secondary)

	if style.CodeBlock.Chroma != nil {
		chroma := *style.CodeBlock.Chroma
		chroma.Text.Color = hex(t.FgBase)
		chroma.Name.Color = hex(t.FgBase)
		chroma.Keyword.Color = hex(t.Primary)
		chroma.Operator.Color = hex(t.Primary)
		chroma.Comment.Color = hex(t.FgMuted)
		chroma.CommentPreproc.Color = hex(t.FgMuted)
		chroma.NameFunction.Color = hex(t.Accent)
		chroma.NameClass.Color = hex(t.Accent)
		style.CodeBlock.Chroma = &chroma
	}

	style.Link.Color = hex(t.Primary)
	style.Link.Underline = ptr(true)
	style.LinkText.Color = hex(t.Primary)

	style.Item.BlockPrefix = "  "
	style.Enumeration.BlockPrefix = "  "

	style.BlockQuote.Color = hex(t.FgMuted)
	style.BlockQuote.Italic = ptr(true)
	style.Emph.Italic = ptr(true)
	style.Strong.Bold = ptr(true)
	style.HorizontalRule.Color = hex(t.FgSubtle)
	style.Table.Color = hex(t.FgBase)

	return style
}

func ptr[T any](v T) *T { return &v }

func hex(c color.Color) *string {
	cf, _ := colorful.MakeColor(c)
	return ptr(cf.Clamped().Hex())
}
