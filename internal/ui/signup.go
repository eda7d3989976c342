package ui

import (
	"context"
	"strings"

	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type signupSuccessMsg struct{}

type signupErrorMsg struct {
	message string
}

const signupFields = 4 // name, email, password, confirm

type SignupModel struct {
	nameInput     string
	emailInput    string
	passwordInput string
	confirmInput  string
	focusedInput  int
	loading       bool
	errMsg        string
	manager       *session.Manager
}

func NewSignupModel(manager *session.Manager) *SignupModel {
	return &SignupModel{manager: manager}
}

func signupCmd(manager *session.Manager, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		if _, err := manager.Signup(context.Background(), name, email, password); err != nil {
			return signupErrorMsg{message: err.Error()}
		}
		return signupSuccessMsg{}
	}
}

// validate enforces the pre-network rules; a failing form never produces
// a request.
func (m *SignupModel) validate() string {
	if m.nameInput == "" || m.emailInput == "" || m.passwordInput == "" || m.confirmInput == "" {
		return "All fields are required"
	}
	if m.passwordInput != m.confirmInput {
		return "Passwords do not match"
	}
	if len(m.passwordInput) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

func (m *SignupModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case signupSuccessMsg:
		m.loading = false
		m.errMsg = ""
		m.passwordInput = ""
		m.confirmInput = ""
		return nil

	case signupErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		if m.loading {
			return nil
		}

		switch msg.String() {
		case "tab":
			m.focusedInput = (m.focusedInput + 1) % signupFields
		case "shift+tab":
			m.focusedInput = (m.focusedInput + signupFields - 1) % signupFields
		case "enter":
			if msg := m.validate(); msg != "" {
				m.errMsg = msg
				return nil
			}
			m.loading = true
			m.errMsg = ""
			return signupCmd(m.manager, m.nameInput, m.emailInput, m.passwordInput)
		case "backspace":
			m.editFocused(func(s string) string {
				if len(s) == 0 {
					return s
				}
				return s[:len(s)-1]
			})
		case "ctrl+l":
			m.nameInput, m.emailInput, m.passwordInput, m.confirmInput = "", "", "", ""
			m.errMsg = ""
		default:
			if len(msg.String()) == 1 {
				m.editFocused(func(s string) string { return s + msg.String() })
			}
		}
	}
	return nil
}

func (m *SignupModel) editFocused(edit func(string) string) {
	switch m.focusedInput {
	case 0:
		m.nameInput = edit(m.nameInput)
	case 1:
		m.emailInput = edit(m.emailInput)
	case 2:
		m.passwordInput = edit(m.passwordInput)
	case 3:
		m.confirmInput = edit(m.confirmInput)
	}
}

func (m *SignupModel) View() string {
	var b strings.Builder

	center := lipgloss.NewStyle().Width(72).Align(lipgloss.Center)
	b.WriteString(center.MarginTop(1).Render(TitleStyle.Render("Create FixNear Account")) + "\n\n")

	b.WriteString(renderField("Name:", m.nameInput, m.focusedInput == 0) + "\n\n")
	b.WriteString(renderField("Email:", m.emailInput, m.focusedInput == 1) + "\n\n")
	b.WriteString(renderField("Password:", strings.Repeat("•", len(m.passwordInput)), m.focusedInput == 2) + "\n\n")
	b.WriteString(renderField("Confirm:", strings.Repeat("•", len(m.confirmInput)), m.focusedInput == 3) + "\n\n")

	if m.loading {
		b.WriteString(center.Render(InfoStyle.Render("Creating account...")) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(center.Render(ErrorStyle.Render(m.errMsg)) + "\n")
	}

	b.WriteString("\n")
	help := InfoStyle.Render("tab switch  •  enter sign up  •  ctrl+s back to login  •  q quit")
	b.WriteString(center.Render(help))

	return BoxStyle.Width(76).Render(b.String())
}
