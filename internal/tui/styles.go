package tui

import "github.com/charmbracelet/lipgloss"

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	echoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	outputStyle = lipgloss.NewStyle()

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
)

// styleFor returns the style used to render a transcript entry.
func styleFor(k entryKind) lipgloss.Style {
	switch k {
	case entryEcho:
		return echoStyle
	case entryError:
		return errorStyle
	default:
		return outputStyle
	}
}
