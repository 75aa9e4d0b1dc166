package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles of the terminal view.
type Theme struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Input   lipgloss.Style
	Notice  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultTheme mirrors the dark look of the web page.
func DefaultTheme() Theme {
	white := lipgloss.Color("#FFFFFF")
	muted := lipgloss.Color("#6B7280")
	border := lipgloss.Color("#374151")

	return Theme{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(white),
		Label:   lipgloss.NewStyle().Foreground(white),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
		Help:   lipgloss.NewStyle().Foreground(muted),
	}
}
