package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fixnear/internal/bookings"
	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type dashboardLoadedMsg struct{}

type dashboardErrorMsg struct {
	message         string
	providerMissing bool
}

type dashboardMode int

const (
	dashboardListing dashboardMode = iota
	dashboardRejecting
)

// DashboardModel is the provider's side of the tracker: incoming requests
// with accept/reject/complete controls.
type DashboardModel struct {
	tracker   *bookings.Tracker
	session   *session.Manager
	exportDir string

	mode            dashboardMode
	cursor          int
	loading         bool
	busy            string // booking ID with a mutation in flight
	errMsg          string
	notice          string
	providerMissing bool

	reasonInput string
}

func NewDashboardModel(tracker *bookings.Tracker, manager *session.Manager, exportDir string) *DashboardModel {
	return &DashboardModel{tracker: tracker, session: manager, exportDir: exportDir}
}

func (m *DashboardModel) load() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	m.providerMissing = false
	m.cursor = 0

	tracker := m.tracker
	identity := m.session.Identity()
	return func() tea.Msg {
		if identity == nil {
			return dashboardErrorMsg{message: "Please log in to view your dashboard"}
		}
		if err := tracker.FetchForProvider(context.Background(), identity.UserID); err != nil {
			if errors.Is(err, bookings.ErrNoProviderProfile) {
				return dashboardErrorMsg{providerMissing: true}
			}
			return dashboardErrorMsg{message: tracker.Err()}
		}
		return dashboardLoadedMsg{}
	}
}

func (m *DashboardModel) transitionCmd(bookingID, action string, reason string) tea.Cmd {
	m.busy = bookingID
	tracker := m.tracker
	return func() tea.Msg {
		var err error
		switch action {
		case "accept":
			err = tracker.Accept(context.Background(), bookingID)
		case "reject":
			err = tracker.Reject(context.Background(), bookingID, reason)
		case "complete":
			err = tracker.Complete(context.Background(), bookingID)
		}
		if err != nil {
			return bookingActionErrorMsg{message: "Failed to " + action + " booking"}
		}
		return bookingActionDoneMsg{notice: "Booking updated"}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		return nil

	case dashboardErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		m.providerMissing = msg.providerMissing
		return nil

	case bookingActionDoneMsg:
		m.busy = ""
		m.mode = dashboardListing
		m.notice = msg.notice
		return nil

	case bookingActionErrorMsg:
		m.busy = ""
		m.mode = dashboardListing
		m.errMsg = msg.message
		return nil

	case exportDoneMsg:
		m.notice = "Exported to " + msg.path
		return nil

	case exportErrorMsg:
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		if m.busy != "" || m.providerMissing {
			return nil
		}
		if m.mode == dashboardRejecting {
			return m.updateRejecting(msg)
		}
		return m.updateListing(msg)
	}
	return nil
}

func (m *DashboardModel) updateListing(msg tea.KeyMsg) tea.Cmd {
	rows := m.tracker.Filtered()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "left", "h":
		m.shiftFilter(-1)
	case "right", "l", "tab":
		m.shiftFilter(1)
	case "r":
		return m.load()
	case "a":
		if m.cursor < len(rows) {
			m.notice = ""
			return m.transitionCmd(rows[m.cursor].ID, "accept", "")
		}
	case "x":
		if m.cursor < len(rows) {
			m.mode = dashboardRejecting
			m.reasonInput = ""
			m.notice = ""
			m.errMsg = ""
		}
	case "d":
		if m.cursor < len(rows) {
			m.notice = ""
			return m.transitionCmd(rows[m.cursor].ID, "complete", "")
		}
	case "e":
		if len(rows) == 0 {
			m.errMsg = "Nothing to export"
			return nil
		}
		return exportCmd(m.exportDir, rows)
	}
	return nil
}

func (m *DashboardModel) updateRejecting(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		rows := m.tracker.Filtered()
		if m.cursor < len(rows) {
			return m.transitionCmd(rows[m.cursor].ID, "reject", m.reasonInput)
		}
		m.mode = dashboardListing
	case "esc":
		m.mode = dashboardListing
	case "backspace":
		if len(m.reasonInput) > 0 {
			m.reasonInput = m.reasonInput[:len(m.reasonInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.reasonInput += msg.String()
		}
	}
	return nil
}

func (m *DashboardModel) shiftFilter(delta int) {
	current := m.tracker.Filter()
	for i, f := range filterTabs {
		if f == current {
			next := (i + delta + len(filterTabs)) % len(filterTabs)
			m.tracker.SetFilter(filterTabs[next])
			m.cursor = 0
			return
		}
	}
}

func (m *DashboardModel) View() string {
	if m.providerMissing {
		var b strings.Builder
		b.WriteString(TitleStyle.Render("Provider Dashboard") + "\n\n")
		b.WriteString(ItemStyle.Render("No provider profile is linked to this account.") + "\n")
		b.WriteString(ItemStyle.Render("Create one under \"Become a Provider\" to start receiving bookings.") + "\n\n")
		b.WriteString(InfoStyle.Render("q back"))
		return BoxStyle.Width(76).Render(b.String())
	}

	if m.mode == dashboardRejecting {
		var b strings.Builder
		b.WriteString(TitleStyle.Render("Reject Booking") + "\n\n")
		b.WriteString(renderField("Reason:", m.reasonInput, true) + "\n\n")
		b.WriteString(InfoStyle.Render("enter reject  •  esc cancel"))
		return BoxStyle.Width(76).Render(b.String())
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Provider Dashboard") + "\n")
	b.WriteString(renderFilterTabs(m.tracker) + "\n\n")

	rows := m.tracker.Filtered()
	switch {
	case m.loading:
		b.WriteString(InfoStyle.Render("Loading requests...") + "\n")
	case len(rows) == 0:
		b.WriteString(InfoStyle.Render("No booking requests here.") + "\n")
	default:
		for i, bk := range rows {
			line := fmt.Sprintf("%-18s %-14s %-12s %s",
				truncate(bk.UserName, 18), truncate(bk.ServiceType, 14), truncate(bk.BookingDate, 12), statusBadge(bk.Status))
			if m.busy == bk.ID {
				line += "  " + InfoStyle.Render("working...")
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
	b.WriteString(InfoStyle.Render("←/→ filter  •  a accept  •  x reject  •  d complete  •  e export  •  r refresh  •  q back"))

	return BoxStyle.Width(90).Render(b.String())
}
