package ui

import (
	"context"
	"strconv"
	"strings"

	"fixnear/internal/api"
	"fixnear/internal/models"
	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type providerCreatedMsg struct{}

type providerCreateErrorMsg struct {
	message string
}

// BecomeProviderModel registers a provider profile for the logged-in user.
type BecomeProviderModel struct {
	client  *api.Client
	session *session.Manager

	nameInput         string
	serviceInput      string
	locationInput     string
	priceInput        string
	workingHoursInput string
	focusedInput      int
	loading           bool
	errMsg            string
}

const becomeProviderFields = 5

func NewBecomeProviderModel(client *api.Client, manager *session.Manager) *BecomeProviderModel {
	return &BecomeProviderModel{client: client, session: manager}
}

func (m *BecomeProviderModel) submit() tea.Cmd {
	identity := m.session.Identity()
	if identity == nil {
		m.errMsg = "Please log in first"
		return nil
	}
	if m.nameInput == "" || m.serviceInput == "" || m.locationInput == "" {
		m.errMsg = "Name, service and location are required"
		return nil
	}
	price, err := strconv.ParseFloat(m.priceInput, 64)
	if err != nil || price <= 0 {
		m.errMsg = "Price must be a positive number"
		return nil
	}

	profile := &models.Provider{
		Name:         m.nameInput,
		Service:      m.serviceInput,
		Location:     m.locationInput,
		UserID:       identity.UserID,
		Available:    true,
		WorkingHours: m.workingHoursInput,
		Price:        price,
	}

	m.loading = true
	m.errMsg = ""
	client := m.client
	return func() tea.Msg {
		if _, err := client.CreateProvider(context.Background(), profile); err != nil {
			return providerCreateErrorMsg{message: "Failed to create provider profile"}
		}
		return providerCreatedMsg{}
	}
}

func (m *BecomeProviderModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case providerCreatedMsg:
		m.loading = false
		return nil

	case providerCreateErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		if m.loading {
			return nil
		}

		switch msg.String() {
		case "tab":
			m.focusedInput = (m.focusedInput + 1) % becomeProviderFields
		case "shift+tab":
			m.focusedInput = (m.focusedInput + becomeProviderFields - 1) % becomeProviderFields
		case "enter":
			return m.submit()
		case "backspace":
			m.editFocused(func(s string) string {
				if len(s) == 0 {
					return s
				}
				return s[:len(s)-1]
			})
		default:
			if len(msg.String()) == 1 {
				m.editFocused(func(s string) string { return s + msg.String() })
			}
		}
	}
	return nil
}

func (m *BecomeProviderModel) editFocused(edit func(string) string) {
	switch m.focusedInput {
	case 0:
		m.nameInput = edit(m.nameInput)
	case 1:
		m.serviceInput = edit(m.serviceInput)
	case 2:
		m.locationInput = edit(m.locationInput)
	case 3:
		m.priceInput = edit(m.priceInput)
	case 4:
		m.workingHoursInput = edit(m.workingHoursInput)
	}
}

func (m *BecomeProviderModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Become a Provider") + "\n")
	b.WriteString(SubtitleStyle.Render("List your services on FixNear") + "\n\n")

	b.WriteString(renderField("Business name:", m.nameInput, m.focusedInput == 0) + "\n\n")
	b.WriteString(renderField("Service:", m.serviceInput, m.focusedInput == 1) + "\n\n")
	b.WriteString(renderField("Location:", m.locationInput, m.focusedInput == 2) + "\n\n")
	b.WriteString(renderField("Price ($/hr):", m.priceInput, m.focusedInput == 3) + "\n\n")
	b.WriteString(renderField("Working hours:", m.workingHoursInput, m.focusedInput == 4) + "\n\n")

	if m.loading {
		b.WriteString(InfoStyle.Render("Creating profile...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(InfoStyle.Render("tab switch  •  enter submit  •  q back"))

	return BoxStyle.Width(76).Render(b.String())
}
