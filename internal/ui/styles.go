package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary   = lipgloss.Color("#2E86AB")
	Secondary = lipgloss.Color("#6FB3D2")
	Accent    = lipgloss.Color("#F18F01")
	Success   = lipgloss.Color("#3BB273")
	Warning   = lipgloss.Color("#FFB84D")
	Error     = lipgloss.Color("#E4572E")
	Muted     = lipgloss.Color("#7A8B99")
	Text      = lipgloss.Color("#ECF3F7")
	BgDark    = lipgloss.Color("#10212E")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginTop(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true).
				PaddingLeft(2)

	ItemStyle = lipgloss.NewStyle().
			Foreground(Text).
			PaddingLeft(2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(Text).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Accent).
				Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(0, 1).
			Underline(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(16)

	StatusStyles = map[string]lipgloss.Style{
		"pending":   lipgloss.NewStyle().Foreground(Warning),
		"accepted":  lipgloss.NewStyle().Foreground(Success),
		"rejected":  lipgloss.NewStyle().Foreground(Error),
		"completed": lipgloss.NewStyle().Foreground(Secondary),
	}
)

func statusBadge(status string) string {
	if style, ok := StatusStyles[status]; ok {
		return style.Render(status)
	}
	return status
}
