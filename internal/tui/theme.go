package tui

import "github.com/charmbracelet/lipgloss"

var (
	surface1 = lipgloss.Color("#45475a")
	text     = lipgloss.Color("#cdd6f4")
	subtext0 = lipgloss.Color("#a6adc8")
	lavender = lipgloss.Color("#b4befe")
	sapphire = lipgloss.Color("#74c7ec")
	green    = lipgloss.Color("#a6e3a1")
	peach    = lipgloss.Color("#fab387")
	yellow   = lipgloss.Color("#f9e2af")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	paneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(surface1).
		Foreground(text).
		Padding(1, 3)

	titleStyle  = lipgloss.NewStyle().Foreground(sapphire).Bold(true)
	clockStyle  = lipgloss.NewStyle().Foreground(text).Bold(true)
	focusStyle  = lipgloss.NewStyle().Foreground(lavender).Bold(true)
	breakStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(subtext0)
	onStyle     = lipgloss.NewStyle().Foreground(green)
	hotStyle    = lipgloss.NewStyle().Foreground(peach).Bold(true)
	quoteStyle  = lipgloss.NewStyle().Foreground(yellow).Italic(true)
	barStyle    = lipgloss.NewStyle().Foreground(lavender)
	barDayStyle = lipgloss.NewStyle().Foreground(subtext0).Width(11)
)
