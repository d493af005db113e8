package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	crumbCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("255"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	previewStyle = lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
			Width(6).
			Foreground(lipgloss.Color("212"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)
