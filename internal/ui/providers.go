package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fixnear/internal/api"
	"fixnear/internal/models"
	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type providersLoadedMsg struct {
	providers []models.Provider
}

type providersErrorMsg struct {
	message string
}

type bookingCreatedMsg struct{}

type bookingCreateErrorMsg struct {
	message string
}

type providersMode int

const (
	providersBrowsing providersMode = iota
	providersSearching
	providersBooking
)

// ProvidersModel is the browse/search surface plus the booking form for a
// selected provider.
type ProvidersModel struct {
	client  *api.Client
	session *session.Manager

	mode      providersMode
	providers []models.Provider
	cursor    int
	loading   bool
	errMsg    string
	notice    string

	// search inputs
	serviceInput  string
	locationInput string
	searchFocus   int

	// booking form
	dateInput        string
	serviceTypeInput string
	descriptionInput string
	bookingFocus     int
	bookingBusy      bool
}

func NewProvidersModel(client *api.Client, manager *session.Manager) *ProvidersModel {
	return &ProvidersModel{client: client, session: manager}
}

func (m *ProvidersModel) load() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	service, location := m.serviceInput, m.locationInput
	client := m.client
	return func() tea.Msg {
		providers, err := client.SearchProviders(context.Background(), service, location)
		if err != nil {
			return providersErrorMsg{message: "Failed to load providers"}
		}
		return providersLoadedMsg{providers: providers}
	}
}

func (m *ProvidersModel) createBooking() tea.Cmd {
	identity := m.session.Identity()
	if identity == nil {
		return func() tea.Msg { return bookingCreateErrorMsg{message: "Please log in to book a service"} }
	}
	if m.dateInput == "" || m.serviceTypeInput == "" {
		return func() tea.Msg { return bookingCreateErrorMsg{message: "Date and service type are required"} }
	}
	if _, err := time.Parse("2006-01-02", m.dateInput); err != nil {
		return func() tea.Msg { return bookingCreateErrorMsg{message: "Date must be YYYY-MM-DD"} }
	}

	req := &api.BookingRequest{
		UserID:     identity.UserID,
		ProviderID: m.providers[m.cursor].ID,
		// Backend expects an ISO local datetime; morning slot by default
		BookingDate: m.dateInput + "T09:00:00",
		ServiceType: m.serviceTypeInput,
		Description: m.descriptionInput,
	}

	m.bookingBusy = true
	client := m.client
	return func() tea.Msg {
		if _, err := client.CreateBooking(context.Background(), req); err != nil {
			return bookingCreateErrorMsg{message: "Failed to create booking. Please try again."}
		}
		return bookingCreatedMsg{}
	}
}

func (m *ProvidersModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case providersLoadedMsg:
		m.loading = false
		m.providers = msg.providers
		m.cursor = 0
		return nil

	case providersErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		return nil

	case bookingCreatedMsg:
		m.bookingBusy = false
		m.mode = providersBrowsing
		m.notice = "Booking created. Track it under My Bookings."
		m.dateInput, m.serviceTypeInput, m.descriptionInput = "", "", ""
		return nil

	case bookingCreateErrorMsg:
		m.bookingBusy = false
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		switch m.mode {
		case providersBrowsing:
			return m.updateBrowsing(msg)
		case providersSearching:
			return m.updateSearching(msg)
		case providersBooking:
			return m.updateBooking(msg)
		}
	}
	return nil
}

func (m *ProvidersModel) updateBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.providers)-1 {
			m.cursor++
		}
	case "/":
		m.mode = providersSearching
		m.searchFocus = 0
		m.notice = ""
	case "r":
		return m.load()
	case "enter", "b":
		if len(m.providers) == 0 {
			return nil
		}
		if !m.session.Authenticated() {
			m.errMsg = "Please log in to book a service"
			return nil
		}
		m.mode = providersBooking
		m.bookingFocus = 0
		m.errMsg = ""
		m.notice = ""
	}
	return nil
}

func (m *ProvidersModel) updateSearching(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		m.searchFocus = (m.searchFocus + 1) % 2
	case "enter":
		m.mode = providersBrowsing
		return m.load()
	case "esc":
		m.mode = providersBrowsing
	case "backspace":
		if m.searchFocus == 0 && len(m.serviceInput) > 0 {
			m.serviceInput = m.serviceInput[:len(m.serviceInput)-1]
		} else if m.searchFocus == 1 && len(m.locationInput) > 0 {
			m.locationInput = m.locationInput[:len(m.locationInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			if m.searchFocus == 0 {
				m.serviceInput += msg.String()
			} else {
				m.locationInput += msg.String()
			}
		}
	}
	return nil
}

func (m *ProvidersModel) updateBooking(msg tea.KeyMsg) tea.Cmd {
	if m.bookingBusy {
		return nil
	}

	switch msg.String() {
	case "tab":
		m.bookingFocus = (m.bookingFocus + 1) % 3
	case "shift+tab":
		m.bookingFocus = (m.bookingFocus + 2) % 3
	case "enter":
		return m.createBooking()
	case "esc":
		m.mode = providersBrowsing
		m.errMsg = ""
	case "backspace":
		m.editBookingField(func(s string) string {
			if len(s) == 0 {
				return s
			}
			return s[:len(s)-1]
		})
	default:
		if len(msg.String()) == 1 {
			m.editBookingField(func(s string) string { return s + msg.String() })
		}
	}
	return nil
}

func (m *ProvidersModel) editBookingField(edit func(string) string) {
	switch m.bookingFocus {
	case 0:
		m.dateInput = edit(m.dateInput)
	case 1:
		m.serviceTypeInput = edit(m.serviceTypeInput)
	case 2:
		m.descriptionInput = edit(m.descriptionInput)
	}
}

func (m *ProvidersModel) View() string {
	switch m.mode {
	case providersSearching:
		return m.viewSearch()
	case providersBooking:
		return m.viewBookingForm()
	default:
		return m.viewList()
	}
}

func (m *ProvidersModel) viewList() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Service Providers") + "\n")
	if m.serviceInput != "" || m.locationInput != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("filter: service=%q location=%q", m.serviceInput, m.locationInput)) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(InfoStyle.Render("Loading providers...") + "\n")
	case len(m.providers) == 0:
		b.WriteString(InfoStyle.Render("No providers found.") + "\n")
	default:
		for i, p := range m.providers {
			line := fmt.Sprintf("%-22s %-16s %-12s $%.0f/hr  %.1f★", truncate(p.Name, 22), truncate(p.Service, 16), truncate(p.Location, 12), p.Price, p.Rating)
			if !p.Available {
				line += "  " + WarningStyle.Render("(unavailable)")
			}
			if i == m.cursor {
				b.WriteString(SelectedItemStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString(ItemStyle.Render("  "+line) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(SuccessStyle.Render(m.notice) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(InfoStyle.Render("↑/↓ move  •  enter book  •  / search  •  r refresh  •  q back"))

	return BoxStyle.Width(86).Render(b.String())
}

func (m *ProvidersModel) viewSearch() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Search Providers") + "\n\n")
	b.WriteString(renderField("Service:", m.serviceInput, m.searchFocus == 0) + "\n\n")
	b.WriteString(renderField("Location:", m.locationInput, m.searchFocus == 1) + "\n\n")
	b.WriteString(InfoStyle.Render("tab switch  •  enter search  •  esc cancel"))

	return BoxStyle.Width(76).Render(b.String())
}

func (m *ProvidersModel) viewBookingForm() string {
	provider := m.providers[m.cursor]

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Book "+provider.Name) + "\n")
	b.WriteString(SubtitleStyle.Render(provider.Service+" — "+provider.Location) + "\n\n")

	b.WriteString(renderField("Date:", m.dateInput, m.bookingFocus == 0) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(72).Align(lipgloss.Center).Render(InfoStyle.Render("YYYY-MM-DD")) + "\n\n")
	b.WriteString(renderField("Service type:", m.serviceTypeInput, m.bookingFocus == 1) + "\n\n")
	b.WriteString(renderField("Details:", m.descriptionInput, m.bookingFocus == 2) + "\n\n")

	if m.bookingBusy {
		b.WriteString(InfoStyle.Render("Creating booking...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(InfoStyle.Render("tab switch  •  enter submit  •  esc cancel"))

	return BoxStyle.Width(76).Render(b.String())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
