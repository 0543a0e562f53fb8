package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#3B82F6")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#8E8E93")
	border  = lipgloss.Color("#3A3A3C")
)

var (
	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	subtleStyle = lipgloss.NewStyle().Foreground(muted)

	tabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(muted)

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	commandStyle = lipgloss.NewStyle().Bold(true)
	infoStyle    = lipgloss.NewStyle()
	successStyle = lipgloss.NewStyle().Foreground(success)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)

	helpStyle = lipgloss.NewStyle().Foreground(muted)
)
