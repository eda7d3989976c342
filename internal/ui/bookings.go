package ui

import (
	"context"
	"fmt"
	"strings"

	"fixnear/internal/bookings"
	"fixnear/internal/export"
	"fixnear/internal/models"
	"fixnear/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type bookingsLoadedMsg struct{}

type bookingsErrorMsg struct {
	message string
}

type bookingActionDoneMsg struct {
	notice string
}

type bookingActionErrorMsg struct {
	message string
}

type exportDoneMsg struct {
	path string
}

type exportErrorMsg struct {
	message string
}

var filterTabs = []string{
	models.FilterAll,
	models.StatusPending,
	models.StatusAccepted,
	models.StatusRejected,
	models.StatusCompleted,
}

type bookingsMode int

const (
	bookingsListing bookingsMode = iota
	bookingsConfirmCancel
	bookingsReviewing
)

// BookingsModel is the customer's booking list: filter tabs, cancellation
// and reviews for completed work.
type BookingsModel struct {
	tracker   *bookings.Tracker
	session   *session.Manager
	exportDir string

	mode    bookingsMode
	cursor  int
	loading bool
	busy    string // booking ID with a mutation in flight
	errMsg  string
	notice  string

	// review form
	ratingInput string
	reviewInput string
	reviewFocus int
}

func NewBookingsModel(tracker *bookings.Tracker, manager *session.Manager, exportDir string) *BookingsModel {
	return &BookingsModel{tracker: tracker, session: manager, exportDir: exportDir}
}

func (m *BookingsModel) load() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	m.cursor = 0

	tracker := m.tracker
	identity := m.session.Identity()
	return func() tea.Msg {
		if identity == nil {
			return bookingsErrorMsg{message: "Please log in to view bookings"}
		}
		if err := tracker.FetchForCustomer(context.Background(), identity.UserID); err != nil {
			return bookingsErrorMsg{message: tracker.Err()}
		}
		return bookingsLoadedMsg{}
	}
}

func (m *BookingsModel) cancelCmd(bookingID string) tea.Cmd {
	m.busy = bookingID
	tracker := m.tracker
	return func() tea.Msg {
		if err := tracker.Cancel(context.Background(), bookingID); err != nil {
			return bookingActionErrorMsg{message: "Failed to cancel booking"}
		}
		return bookingActionDoneMsg{notice: "Booking cancelled"}
	}
}

func (m *BookingsModel) reviewCmd(bookingID string, rating int, review string) tea.Cmd {
	m.busy = bookingID
	tracker := m.tracker
	return func() tea.Msg {
		if err := tracker.AddReview(context.Background(), bookingID, rating, review); err != nil {
			return bookingActionErrorMsg{message: "Failed to submit review"}
		}
		return bookingActionDoneMsg{notice: "Review submitted"}
	}
}

func exportCmd(dir string, rows []models.Booking) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteBookings(dir, rows)
		if err != nil {
			return exportErrorMsg{message: "Export failed: " + err.Error()}
		}
		return exportDoneMsg{path: path}
	}
}

func (m *BookingsModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case bookingsLoadedMsg:
		m.loading = false
		return nil

	case bookingsErrorMsg:
		m.loading = false
		m.errMsg = msg.message
		return nil

	case bookingActionDoneMsg:
		m.busy = ""
		m.mode = bookingsListing
		m.notice = msg.notice
		m.clampCursor()
		return nil

	case bookingActionErrorMsg:
		m.busy = ""
		m.mode = bookingsListing
		m.errMsg = msg.message
		return nil

	case exportDoneMsg:
		m.notice = "Exported to " + msg.path
		return nil

	case exportErrorMsg:
		m.errMsg = msg.message
		return nil

	case tea.KeyMsg:
		if m.busy != "" {
			return nil
		}
		switch m.mode {
		case bookingsConfirmCancel:
			return m.updateConfirmCancel(msg)
		case bookingsReviewing:
			return m.updateReview(msg)
		default:
			return m.updateListing(msg)
		}
	}
	return nil
}

func (m *BookingsModel) updateListing(msg tea.KeyMsg) tea.Cmd {
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
	case "c":
		if m.cursor < len(rows) {
			m.mode = bookingsConfirmCancel
			m.notice = ""
			m.errMsg = ""
		}
	case "v":
		if m.cursor < len(rows) {
			b := rows[m.cursor]
			if b.Status != models.StatusCompleted {
				m.errMsg = "Only completed bookings can be reviewed"
				return nil
			}
			if b.Rated() {
				m.errMsg = "You already reviewed this booking"
				return nil
			}
			m.mode = bookingsReviewing
			m.ratingInput, m.reviewInput = "", ""
			m.reviewFocus = 0
			m.notice = ""
			m.errMsg = ""
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

func (m *BookingsModel) updateConfirmCancel(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		rows := m.tracker.Filtered()
		if m.cursor < len(rows) {
			return m.cancelCmd(rows[m.cursor].ID)
		}
		m.mode = bookingsListing
	case "n", "esc":
		m.mode = bookingsListing
	}
	return nil
}

func (m *BookingsModel) updateReview(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		m.reviewFocus = (m.reviewFocus + 1) % 2
	case "enter":
		rating := 0
		if _, err := fmt.Sscanf(m.ratingInput, "%d", &rating); err != nil || rating < 1 || rating > 5 {
			m.errMsg = "Rating must be a number from 1 to 5"
			return nil
		}
		rows := m.tracker.Filtered()
		if m.cursor < len(rows) {
			return m.reviewCmd(rows[m.cursor].ID, rating, m.reviewInput)
		}
		m.mode = bookingsListing
	case "esc":
		m.mode = bookingsListing
		m.errMsg = ""
	case "backspace":
		if m.reviewFocus == 0 && len(m.ratingInput) > 0 {
			m.ratingInput = m.ratingInput[:len(m.ratingInput)-1]
		} else if m.reviewFocus == 1 && len(m.reviewInput) > 0 {
			m.reviewInput = m.reviewInput[:len(m.reviewInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			if m.reviewFocus == 0 {
				m.ratingInput += msg.String()
			} else {
				m.reviewInput += msg.String()
			}
		}
	}
	return nil
}

func (m *BookingsModel) shiftFilter(delta int) {
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

func (m *BookingsModel) clampCursor() {
	if n := len(m.tracker.Filtered()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m *BookingsModel) View() string {
	switch m.mode {
	case bookingsConfirmCancel:
		return m.viewConfirmCancel()
	case bookingsReviewing:
		return m.viewReviewForm()
	default:
		return m.viewList()
	}
}

func (m *BookingsModel) viewList() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("My Bookings") + "\n")
	b.WriteString(renderFilterTabs(m.tracker) + "\n\n")

	rows := m.tracker.Filtered()
	switch {
	case m.loading:
		b.WriteString(InfoStyle.Render("Loading bookings...") + "\n")
	case len(rows) == 0:
		b.WriteString(InfoStyle.Render("No bookings here yet.") + "\n")
	default:
		for i, bk := range rows {
			line := fmt.Sprintf("%-20s %-14s %-12s %s",
				truncate(bk.ProviderName, 20), truncate(bk.ServiceType, 14), truncate(bk.BookingDate, 12), statusBadge(bk.Status))
			if bk.Rated() {
				line += fmt.Sprintf("  %d★", bk.Rating)
			}
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
	b.WriteString(InfoStyle.Render("←/→ filter  •  c cancel  •  v review  •  e export  •  r refresh  •  q back"))

	return BoxStyle.Width(86).Render(b.String())
}

func (m *BookingsModel) viewConfirmCancel() string {
	rows := m.tracker.Filtered()
	target := "this booking"
	if m.cursor < len(rows) {
		target = rows[m.cursor].ServiceType + " with " + rows[m.cursor].ProviderName
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Cancel Booking") + "\n\n")
	b.WriteString(ItemStyle.Render("Cancel "+target+"?") + "\n\n")
	b.WriteString(InfoStyle.Render("y confirm  •  n keep it"))
	return BoxStyle.Width(66).Render(b.String())
}

func (m *BookingsModel) viewReviewForm() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Leave a Review") + "\n\n")
	b.WriteString(renderField("Rating (1-5):", m.ratingInput, m.reviewFocus == 0) + "\n\n")
	b.WriteString(renderField("Review:", m.reviewInput, m.reviewFocus == 1) + "\n\n")
	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(InfoStyle.Render("tab switch  •  enter submit  •  esc cancel"))
	return BoxStyle.Width(76).Render(b.String())
}

func renderFilterTabs(tracker *bookings.Tracker) string {
	counts := tracker.CountByStatus()
	total := len(tracker.Bookings())
	current := tracker.Filter()

	var tabs []string
	for _, f := range filterTabs {
		n := counts[f]
		if f == models.FilterAll {
			n = total
		}
		label := fmt.Sprintf("%s (%d)", f, n)
		if f == current {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}
