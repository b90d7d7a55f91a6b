// Package styles provides the color themes and shared lipgloss styles.
package styles

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Theme is a named color palette.
type Theme struct { //nolint:govet // fieldalignment: preserving logical field order
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	once   sync.Once
	styles *Styles
}

// Styles are the ready-made styles derived from a theme.
type Styles struct {
	Base     lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Primary  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style

	TextInput textinput.Styles
}

// S returns the theme's styles, building them on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:     base,
		Text:     base,
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Primary:  lipgloss.NewStyle().Foreground(t.Primary),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Info:     lipgloss.NewStyle().Foreground(t.Info),
		TextInput: textinput.Styles{
			Focused: textinput.StyleState{
				Text:        base,
				Placeholder: lipgloss.NewStyle().Foreground(t.FgSubtle),
				Suggestion:  lipgloss.NewStyle().Foreground(t.FgSubtle),
				Prompt:      lipgloss.NewStyle().Foreground(t.Primary),
			},
			Blurred: textinput.StyleState{
				Text:        lipgloss.NewStyle().Foreground(t.FgMuted),
				Placeholder: lipgloss.NewStyle().Foreground(t.FgSubtle),
				Suggestion:  lipgloss.NewStyle().Foreground(t.FgSubtle),
				Prompt:      lipgloss.NewStyle().Foreground(t.FgMuted),
			},
			Cursor: textinput.CursorStyle{
				Color: t.Primary,
				Shape: tea.CursorBlock,
				Blink: true,
			},
		},
	}
}

// ParseHex parses a "#rrggbb" color. Invalid input falls back to lipgloss's
// own parsing so a typo in a theme never panics.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lipgloss.Color(hex)
	}
	return c
}

// Manager holds the registered themes and the active one.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

var (
	defaultManager   *Manager
	defaultManagerMu sync.Mutex
)

// NewManager creates the process-wide theme manager with the built-in themes
// registered and the default theme active.
func NewManager() *Manager {
	m := &Manager{themes: make(map[string]*Theme)}
	m.Register(NewDefaultTheme())
	m.Register(NewDawnTheme())
	m.current = m.themes["default"]

	defaultManagerMu.Lock()
	defaultManager = m
	defaultManagerMu.Unlock()
	return m
}

// DefaultManager returns the process-wide manager, creating it if needed.
func DefaultManager() *Manager {
	defaultManagerMu.Lock()
	m := defaultManager
	defaultManagerMu.Unlock()
	if m == nil {
		return NewManager()
	}
	return m
}

// Register adds or replaces a theme.
func (m *Manager) Register(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.Name] = t
}

// SetTheme activates a registered theme.
func (m *Manager) SetTheme(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	m.current = t
	return nil
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Names lists the registered theme names in order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentTheme returns the active theme of the process-wide manager.
func CurrentTheme() *Theme {
	return DefaultManager().Current()
}

// ApplyForegroundGrad colors each grapheme of input along a gradient from
// c1 to c2. Every line runs the full gradient.
func ApplyForegroundGrad(input string, c1, c2 color.Color) string {
	from, ok1 := colorful.MakeColor(c1)
	to, ok2 := colorful.MakeColor(c2)
	if !ok1 || !ok2 {
		return input
	}

	lines := strings.Split(input, "\n")
	for i, line := range lines {
		var clusters []string
		gr := uniseg.NewGraphemes(line)
		for gr.Next() {
			clusters = append(clusters, gr.Str())
		}
		if len(clusters) == 0 {
			continue
		}

		var b strings.Builder
		for j, cluster := range clusters {
			step := 0.0
			if len(clusters) > 1 {
				step = float64(j) / float64(len(clusters)-1)
			}
			c := from.BlendLuv(to, step).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(cluster))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
