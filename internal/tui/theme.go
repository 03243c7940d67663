package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are adaptive pairs rather than fixed codes.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  lipgloss.TerminalColor = ac("240", "243")
	colorAccent lipgloss.TerminalColor = ac("27", "75")
	colorDanger lipgloss.TerminalColor = ac("160", "203")

	styleTitle = lipgloss.NewStyle().Bold(true)

	styleTab = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
	styleTabActive = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	styleStatus = lipgloss.NewStyle().Foreground(colorMuted)
	styleError  = lipgloss.NewStyle().Foreground(colorDanger)
	styleMove   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// hyperlink wraps text in an OSC 8 hyperlink when the terminal supports
// color output at all (a rough but workable proxy).
func hyperlink(url, text string) string {
	if termenv.EnvColorProfile() == termenv.Ascii {
		return text
	}
	return termenv.Hyperlink(url, text)
}
