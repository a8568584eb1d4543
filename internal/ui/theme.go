package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext  = lipgloss.Color("#a6adc8")
	colorSurface  = lipgloss.Color("#45475a")
	colorLavender = lipgloss.Color("#b4befe")
	colorMauve    = lipgloss.Color("#cba6f7")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorRed      = lipgloss.Color("#f38ba8")
	colorSapphire = lipgloss.Color("#74c7ec")

	appStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(1, 2)

	titleStyle    = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true).MarginBottom(1)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorSubtext)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	successStyle  = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(0, 2)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Width(18).
			Align(lipgloss.Center)

	buttonActiveStyle = buttonStyle.
				Foreground(colorMauve).
				BorderForeground(colorLavender).
				Bold(true)

	restartStyle = buttonStyle.BorderForeground(colorRed)
)
