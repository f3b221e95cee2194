package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#E5A00D")
	dim    = lipgloss.Color("#6B7280")
	red    = lipgloss.Color("#EF4444")
	green  = lipgloss.Color("#10B981")
)

var (
	categoryStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	folderStyle = lipgloss.NewStyle().Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(dim)

	infoStyle    = lipgloss.NewStyle().Foreground(green)
	warningStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
)

func levelStyle(l Level) lipgloss.Style {
	switch l {
	case LevelWarning:
		return warningStyle
	case LevelError:
		return errorStyle
	default:
		return infoStyle
	}
}
