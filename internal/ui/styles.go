package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtle   = lipgloss.Color("#7f849c")
	colorAccent   = lipgloss.Color("#89b4fa")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorRed      = lipgloss.Color("#f38ba8")
	colorYellow   = lipgloss.Color("#f9e2af")
	colorSurface1 = lipgloss.Color("#45475a")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtle).Width(12)
	valueStyle   = lipgloss.NewStyle().Foreground(colorText)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	pendingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	linkStyle    = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	focusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorAccent).
				Padding(0, 1)
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(colorAccent).
			Padding(0, 2)
	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Background(colorSurface1).
				Padding(0, 2)
)
