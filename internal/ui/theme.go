package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF6600")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(1, 0)

	MetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Width(8)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)
