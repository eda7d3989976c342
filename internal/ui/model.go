package ui

import (
	"encoding/json"

	"fixnear/internal/api"
	"fixnear/internal/bookings"
	"fixnear/internal/events"
	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type View int

const (
	LoginView View = iota
	SignupView
	MenuView
	ProvidersView
	MyBookingsView
	DashboardView
	BecomeProviderView
)

// sessionExpiredMsg arrives when the validation loop force-logs-out.
type sessionExpiredMsg struct {
	reason string
}

// Deps bundles what the views need; cmd/tui wires it.
type Deps struct {
	Client    *api.Client
	Session   *session.Manager
	Customer  *bookings.Tracker
	Provider  *bookings.Tracker
	Bus       *events.EventBus
	ExportDir string
}

type Model struct {
	currentView View
	deps        Deps

	login          *LoginModel
	signup         *SignupModel
	menu           *MenuModel
	providers      *ProvidersModel
	myBookings     *BookingsModel
	dashboard      *DashboardModel
	becomeProvider *BecomeProviderModel

	expiry chan sessionExpiredMsg
	width  int
	height int
}

func NewModel(deps Deps) Model {
	m := Model{
		currentView:    LoginView,
		deps:           deps,
		login:          NewLoginModel(deps.Session),
		signup:         NewSignupModel(deps.Session),
		menu:           NewMenuModel(),
		providers:      NewProvidersModel(deps.Client, deps.Session),
		myBookings:     NewBookingsModel(deps.Customer, deps.Session, deps.ExportDir),
		dashboard:      NewDashboardModel(deps.Provider, deps.Session, deps.ExportDir),
		becomeProvider: NewBecomeProviderModel(deps.Client, deps.Session),
		expiry:         make(chan sessionExpiredMsg, 1),
	}

	if deps.Session.Authenticated() {
		m.currentView = MenuView
	}

	// The validation loop runs outside bubbletea; bridge its expiry
	// events into the message stream.
	deps.Bus.Subscribe(events.EventSessionExpired, func(event *events.Event) error {
		var payload events.SessionEventPayload
		_ = json.Unmarshal(event.Payload, &payload)
		select {
		case m.expiry <- sessionExpiredMsg{reason: payload.Reason}:
		default:
		}
		return nil
	})

	return m
}

func waitForExpiry(ch chan sessionExpiredMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Init() tea.Cmd {
	return waitForExpiry(m.expiry)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionExpiredMsg:
		m.currentView = LoginView
		m.login.notice = msg.reason
		return m, waitForExpiry(m.expiry)

	case loginSuccessMsg, signupSuccessMsg:
		m.currentView = MenuView
		return m, nil

	case menuSelectedMsg:
		switch msg.option {
		case menuProviders:
			m.currentView = ProvidersView
			return m, m.providers.load()
		case menuMyBookings:
			m.currentView = MyBookingsView
			return m, m.myBookings.load()
		case menuDashboard:
			m.currentView = DashboardView
			return m, m.dashboard.load()
		case menuBecomeProvider:
			m.currentView = BecomeProviderView
			return m, nil
		case menuLogout:
			m.deps.Session.Logout()
			m.currentView = LoginView
			return m, nil
		}
		return m, nil

	case providerCreatedMsg:
		// A fresh profile means the dashboard fetch will now resolve.
		m.currentView = DashboardView
		return m, m.dashboard.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.currentView == MenuView || m.currentView == LoginView || m.currentView == SignupView {
				return m, tea.Quit
			}
			if !m.busy() {
				m.currentView = MenuView
				return m, nil
			}

		case "ctrl+s":
			if m.currentView == LoginView {
				m.currentView = SignupView
				return m, nil
			}
			if m.currentView == SignupView {
				m.currentView = LoginView
				return m, nil
			}
		}
	}

	return m.route(msg)
}

func (m Model) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case LoginView:
		cmd = m.login.Update(msg)
	case SignupView:
		cmd = m.signup.Update(msg)
	case MenuView:
		cmd = m.menu.Update(msg)
	case ProvidersView:
		cmd = m.providers.Update(msg)
	case MyBookingsView:
		cmd = m.myBookings.Update(msg)
	case DashboardView:
		cmd = m.dashboard.Update(msg)
	case BecomeProviderView:
		cmd = m.becomeProvider.Update(msg)
	}
	return m, cmd
}

// busy reports whether the current view has a mutation in flight; leaving
// mid-request is how stale responses end up applied to the wrong screen.
func (m Model) busy() bool {
	switch m.currentView {
	case MyBookingsView:
		return m.myBookings.busy != ""
	case DashboardView:
		return m.dashboard.busy != ""
	}
	return false
}

func (m Model) View() string {
	var statusBar string
	if identity := m.deps.Session.Identity(); identity != nil && m.currentView != LoginView && m.currentView != SignupView {
		userInfo := lipgloss.NewStyle().Foreground(Success).Render(identity.UserName)
		emailInfo := lipgloss.NewStyle().Foreground(Muted).Render(" (" + identity.Email + ")")

		warning := ""
		if msg := m.deps.Session.Err(); msg != "" {
			warning = "  " + WarningStyle.Render(msg)
		}

		statusBar = lipgloss.NewStyle().
			Width(100).
			Background(BgDark).
			Padding(0, 2).
			Render(userInfo + emailInfo + warning)
	}

	var mainContent string
	switch m.currentView {
	case LoginView:
		mainContent = m.login.View()
	case SignupView:
		mainContent = m.signup.View()
	case MenuView:
		mainContent = m.menu.View()
	case ProvidersView:
		mainContent = m.providers.View()
	case MyBookingsView:
		mainContent = m.myBookings.View()
	case DashboardView:
		mainContent = m.dashboard.View()
	case BecomeProviderView:
		mainContent = m.becomeProvider.View()
	}

	if statusBar != "" {
		return lipgloss.JoinVertical(lipgloss.Left, statusBar, "", mainContent)
	}
	return mainContent
}
