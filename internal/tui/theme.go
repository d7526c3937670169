package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"braid/internal/model"
)

// Theme/palette helpers.
//
// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are lipgloss.AdaptiveColor throughout and "faint" styling is only
// applied on dark backgrounds (faint on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorChrome  lipgloss.TerminalColor = ac("240", "245")
	colorAccent  lipgloss.TerminalColor = ac("27", "62")
	colorError   lipgloss.TerminalColor = ac("160", "203")
	colorRulerFg lipgloss.TerminalColor = ac("245", "240")
	colorHintFg  lipgloss.TerminalColor = ac("28", "77")

	// MICE category colors, one per narrative quotient.
	colorMilieu    lipgloss.TerminalColor = ac("28", "77")
	colorIdea      lipgloss.TerminalColor = ac("26", "75")
	colorCharacter lipgloss.TerminalColor = ac("166", "215")
	colorEvent     lipgloss.TerminalColor = ac("125", "211")
)

func miceColor(t model.NodeType) lipgloss.TerminalColor {
	switch t {
	case model.NodeTypeMilieu:
		return colorMilieu
	case model.NodeTypeIdea:
		return colorIdea
	case model.NodeTypeCharacter:
		return colorCharacter
	case model.NodeTypeEvent:
		return colorEvent
	}
	return colorMuted
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// hasColor reports whether the terminal renders color at all; monochrome
// terminals get the plain glyph set regardless of preference.
func hasColor() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}
