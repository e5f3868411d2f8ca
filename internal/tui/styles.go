package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#2563eb")
	colorMuted  = lipgloss.Color("#6b7280")
	colorText   = lipgloss.Color("#e5e7eb")
	colorError  = lipgloss.Color("#ef4444")
	colorWhite  = lipgloss.Color("#ffffff")
)

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginBottom(1)
	tabActiveStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorAccent).Padding(0, 1)
	tabInactiveStyle    = lipgloss.NewStyle().Foreground(colorText).Background(colorMuted).Padding(0, 1)
	cardStyle           = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	cardTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle          = lipgloss.NewStyle().Foreground(colorMuted)
	linkStyle           = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle          = lipgloss.NewStyle().Foreground(colorError)
	spinnerStyle        = lipgloss.NewStyle().Foreground(colorAccent)
	buttonStyle         = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
)
