package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuOption int

const (
	menuProviders menuOption = iota
	menuMyBookings
	menuDashboard
	menuBecomeProvider
	menuLogout
)

type menuSelectedMsg struct {
	option menuOption
}

var menuLabels = []string{
	"Browse Providers",
	"My Bookings",
	"Provider Dashboard",
	"Become a Provider",
	"Log Out",
}

type MenuModel struct {
	cursor int
}

func NewMenuModel() *MenuModel {
	return &MenuModel{}
}

func (m *MenuModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuLabels)-1 {
			m.cursor++
		}
	case "enter":
		option := menuOption(m.cursor)
		return func() tea.Msg { return menuSelectedMsg{option: option} }
	}
	return nil
}

func (m *MenuModel) View() string {
	var b strings.Builder

	center := lipgloss.NewStyle().Width(60).Align(lipgloss.Center)
	b.WriteString(center.Render(TitleStyle.Render("FixNear")) + "\n")
	b.WriteString(center.Render(SubtitleStyle.Render("What would you like to do?")) + "\n\n")

	for i, label := range menuLabels {
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(ItemStyle.Render("  "+label) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center.Render(InfoStyle.Render("↑/↓ move  •  enter select  •  q quit")))

	return BoxStyle.Width(64).Render(b.String())
}
