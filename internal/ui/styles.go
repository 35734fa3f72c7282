// internal/ui/styles.go

// Package ui holds the visual layer: lipgloss styles, key bindings and
// the widget helpers the dashboard composes its views from.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")  // blue
	ColorAccent  = lipgloss.Color("170") // magenta
	ColorOK      = lipgloss.Color("42")  // green
	ColorWarn    = lipgloss.Color("214") // orange
	ColorError   = lipgloss.Color("196") // red
	ColorMuted   = lipgloss.Color("241") // gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(ColorPrimary).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(ColorAccent)

	NormalStyle = lipgloss.NewStyle()

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	RunningStyle = lipgloss.NewStyle().Foreground(ColorOK)
	StoppedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	FailedStyle  = lipgloss.NewStyle().Foreground(ColorError)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	SecretStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)
