package chat

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/tui/components/sessions"
	"github.com/parthgoyal01/aurora/internal/tui/styles"
)

// StatusBar shows the send state, the latest notice and key hints.
type StatusBar struct { //nolint:govet // fieldalignment: preserving logical field order
	spinner   spinner.Model
	sending   bool
	connected bool

	notice      string
	noticeLevel events.NoticeLevel
	noticeSeq   int

	hints *sessions.HintBar
	width int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	t := styles.CurrentTheme()
	return &StatusBar{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(t.S().Primary),
		),
		hints: sessions.NewHintBar(),
	}
}

// SetSending starts or stops the typing spinner.
func (s *StatusBar) SetSending(sending bool) tea.Cmd {
	was := s.sending
	s.sending = sending
	if sending && !was {
		return s.spinner.Tick
	}
	return nil
}

// Sending reports whether a reply is pending.
func (s *StatusBar) Sending() bool {
	return s.sending
}

// SetConnected records the live connection state.
func (s *StatusBar) SetConnected(connected bool) {
	s.connected = connected
}

// SetNotice shows a notice and returns its sequence number, used to expire
// it later without clearing a newer one.
func (s *StatusBar) SetNotice(level events.NoticeLevel, text string) int {
	s.noticeSeq++
	s.notice = text
	s.noticeLevel = level
	return s.noticeSeq
}

// ExpireNotice clears the notice if seq is still the latest.
func (s *StatusBar) ExpireNotice(seq int) {
	if seq == s.noticeSeq {
		s.notice = ""
	}
}

// Notice returns the visible notice.
func (s *StatusBar) Notice() string {
	return s.notice
}

// SetHintMode switches the key hints.
func (s *StatusBar) SetHintMode(mode sessions.HintMode) {
	s.hints.SetMode(mode)
}

// Frame returns the current spinner frame.
func (s *StatusBar) Frame() string {
	return s.spinner.View()
}

// Update advances the spinner while a reply is pending.
func (s *StatusBar) Update(msg tea.Msg) (*StatusBar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || !s.sending {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var left string
	switch {
	case s.notice != "" && s.noticeLevel == events.NoticeError:
		left = t.S().Error.Render(s.notice)
	case s.notice != "":
		left = t.S().Info.Render(s.notice)
	case s.sending:
		left = s.spinner.View() + " " + t.S().Info.Render("Waiting for reply...")
	case s.connected:
		left = t.S().Success.Render("● Connected")
	default:
		left = t.S().Warning.Render("○ Offline")
	}

	right := t.S().Muted.Render(s.hints.Text())

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Too narrow for hints.
		return lipgloss.NewStyle().Width(s.width).Padding(0, 1).Render(left)
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(left + strings.Repeat(" ", gap) + right)
}
