package ui

import (
	"context"
	"strings"

	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginSuccessMsg struct{}

type loginErrorMsg struct {
	message string
}

type LoginModel struct {
	emailInput    string
	passwordInput string
	focusedInput  int
	loading       bool
	errMsg        string
	notice        string
	manager       *session.Manager
}

func NewLoginModel(manager *session.Manager) *LoginModel {
	return &LoginModel{manager: manager}
}

func loginCmd(manager *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := manager.Login(context.Background(), email, password); err != nil {
			return loginErrorMsg{message: err.Error()}
		}
		return loginSuccessMsg{}
	}
}

func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginSuccessMsg:
		m.loading = false
		m.errMsg = ""
		m.notice = ""
		m.passwordInput = ""
		return nil

	case loginErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		if m.loading {
			return nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			m.focusedInput = (m.focusedInput + 1) % 2
		case "enter":
			// Validation errors never reach the network
			if m.emailInput == "" {
				m.errMsg = "Email cannot be empty"
				return nil
			}
			if m.passwordInput == "" {
				m.errMsg = "Password cannot be empty"
				return nil
			}
			m.loading = true
			m.errMsg = ""
			m.notice = ""
			return loginCmd(m.manager, m.emailInput, m.passwordInput)
		case "backspace":
			if m.focusedInput == 0 && len(m.emailInput) > 0 {
				m.emailInput = m.emailInput[:len(m.emailInput)-1]
			} else if m.focusedInput == 1 && len(m.passwordInput) > 0 {
				m.passwordInput = m.passwordInput[:len(m.passwordInput)-1]
			}
		case "ctrl+l":
			m.emailInput = ""
			m.passwordInput = ""
			m.errMsg = ""
		default:
			if len(msg.String()) == 1 {
				if m.focusedInput == 0 {
					m.emailInput += msg.String()
				} else {
					m.passwordInput += msg.String()
				}
			}
		}
	}
	return nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	title := TitleStyle.Render("FixNear — Log In")
	subtitle := SubtitleStyle.Render("Book trusted local services")

	center := lipgloss.NewStyle().Width(72).Align(lipgloss.Center)
	b.WriteString(center.MarginTop(1).Render(title) + "\n")
	b.WriteString(center.MarginBottom(2).Render(subtitle) + "\n\n")

	b.WriteString(renderField("Email:", m.emailInput, m.focusedInput == 0) + "\n\n")
	b.WriteString(renderField("Password:", strings.Repeat("•", len(m.passwordInput)), m.focusedInput == 1) + "\n\n")

	if m.loading {
		b.WriteString(center.Render(InfoStyle.Render("Logging in...")) + "\n")
	}
	if m.notice != "" {
		b.WriteString(center.Render(WarningStyle.Render(m.notice)) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(center.Render(ErrorStyle.Render(m.errMsg)) + "\n")
	}

	b.WriteString("\n")
	help := InfoStyle.Render("tab switch  •  enter login  •  ctrl+l clear  •  ctrl+s signup  •  q quit")
	b.WriteString(center.Render(help))

	return BoxStyle.Width(76).Render(b.String())
}

func renderField(label, value string, focused bool) string {
	style := InputStyle
	if focused {
		style = FocusedInputStyle
	}
	labelCell := LabelStyle.Render(label)
	valueCell := style.Width(46).Render(value)
	return lipgloss.NewStyle().Width(72).Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, labelCell, valueCell))
}
