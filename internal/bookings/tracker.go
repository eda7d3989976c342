package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fixnear/internal/api"
	"fixnear/internal/events"
	"fixnear/internal/metrics"
	"fixnear/internal/models"

	"github.com/rs/zerolog"
)

// ErrNoProviderProfile is the distinct terminal state for a provider view
// opened by an account with no linked provider profile. It directs the
// actor to create one; it is not a fetch failure.
var ErrNoProviderProfile = errors.New("no provider profile linked to this account")

// Backend status values for transition requests.
const (
	requestAccepted  = "ACCEPTED"
	requestRejected  = "REJECTED"
	requestCompleted = "COMPLETED"
)

// Tracker holds the booking set for one actor (customer or provider
// view), keeps it normalized, and applies lifecycle transitions by asking
// the backend and reconciling with its answer. The backend stays the sole
// source of truth for status; the tracker never infers one.
type Tracker struct {
	client *api.Client
	bus    *events.EventBus
	logger zerolog.Logger

	mu              sync.RWMutex
	bookings        []models.Booking
	loading         bool
	errMsg          string
	filter          string
	providerID      string
	providerMissing bool
}

func NewTracker(client *api.Client, bus *events.EventBus, defaultFilter string, logger zerolog.Logger) *Tracker {
	if !models.ValidFilter(defaultFilter) {
		defaultFilter = models.FilterAll
	}
	return &Tracker{
		client: client,
		bus:    bus,
		logger: logger,
		filter: defaultFilter,
	}
}

// FetchForCustomer replaces the local set with the customer's bookings.
// An empty result is an empty sequence, not an error.
func (t *Tracker) FetchForCustomer(ctx context.Context, userID string) error {
	t.setLoading(true)
	defer t.setLoading(false)

	fetched, err := t.client.ListBookingsByUser(ctx, userID)
	if err != nil {
		t.setError("Failed to load your bookings")
		return err
	}

	t.replace(fetched)
	return nil
}

// FetchForProvider resolves the provider profile linked to userID first;
// without one the tracker enters the provider-missing terminal state.
func (t *Tracker) FetchForProvider(ctx context.Context, userID string) error {
	t.setLoading(true)
	defer t.setLoading(false)

	provider, err := t.client.ProviderByUser(ctx, userID)
	if err != nil {
		t.setError("Failed to load bookings")
		return err
	}
	if provider == nil {
		t.mu.Lock()
		t.bookings = nil
		t.providerMissing = true
		t.errMsg = ErrNoProviderProfile.Error()
		t.mu.Unlock()
		return ErrNoProviderProfile
	}

	fetched, err := t.client.ListBookingsByProvider(ctx, provider.ID)
	if err != nil {
		t.setError("Failed to load bookings")
		return err
	}

	t.mu.Lock()
	t.providerID = provider.ID
	t.providerMissing = false
	t.mu.Unlock()

	t.replace(fetched)
	return nil
}

// Cancel deletes a pending booking and removes it locally on success,
// without a re-fetch. The client does not gate on status; the backend does.
func (t *Tracker) Cancel(ctx context.Context, bookingID string) error {
	if err := t.client.CancelBooking(ctx, bookingID); err != nil {
		metrics.IncBookingTransition("cancel", "error")
		t.setError("Failed to cancel booking")
		return err
	}
	metrics.IncBookingTransition("cancel", "ok")

	t.mu.Lock()
	kept := t.bookings[:0]
	for _, b := range t.bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	t.bookings = kept
	t.errMsg = ""
	t.mu.Unlock()

	t.logger.Info().Str("booking_id", bookingID).Msg("booking cancelled")
	_ = t.bus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{
		BookingID: bookingID,
		Action:    "cancel",
	})
	return nil
}

// Accept requests pending -> accepted.
func (t *Tracker) Accept(ctx context.Context, bookingID string) error {
	return t.transition(ctx, bookingID, "accept", requestAccepted, "")
}

// Reject requests pending -> rejected. The optional reason travels to the
// backend for the customer's benefit and is not kept locally.
func (t *Tracker) Reject(ctx context.Context, bookingID, reason string) error {
	return t.transition(ctx, bookingID, "reject", requestRejected, reason)
}

// Complete requests accepted -> completed.
func (t *Tracker) Complete(ctx context.Context, bookingID string) error {
	return t.transition(ctx, bookingID, "complete", requestCompleted, "")
}

func (t *Tracker) transition(ctx context.Context, bookingID, action, requested, reason string) error {
	updated, err := t.client.UpdateBookingStatus(ctx, bookingID, requested, reason)
	if err != nil {
		metrics.IncBookingTransition(action, "error")
		t.setError(fmt.Sprintf("Failed to %s booking", action))
		return err
	}
	metrics.IncBookingTransition(action, "ok")

	// The server's answer wins; the requested status only fills a silence.
	newStatus := strings.ToLower(requested)
	if updated != nil && updated.Status != "" {
		newStatus = models.NormalizeStatus(updated.Status)
	}

	t.apply(bookingID, func(b *models.Booking) { b.Status = newStatus })

	t.logger.Info().Str("booking_id", bookingID).Str("status", newStatus).Msg("booking transition applied")
	_ = t.bus.PublishJSON(events.EventBookingUpdated, events.BookingEventPayload{
		BookingID: bookingID,
		Status:    newStatus,
		Action:    action,
	})
	return nil
}

// AddReview attaches a rating and optional text to a completed booking.
// The UI only offers it for unrated completed bookings; the tracker itself
// stays permissive and lets the backend arbitrate repeats.
func (t *Tracker) AddReview(ctx context.Context, bookingID string, rating int, review string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	updated, err := t.client.AddBookingReview(ctx, bookingID, rating, review)
	if err != nil {
		metrics.IncBookingTransition("review", "error")
		t.setError("Failed to add review")
		return err
	}
	metrics.IncBookingTransition("review", "ok")

	newStatus := models.StatusCompleted
	if updated != nil && updated.Status != "" {
		newStatus = models.NormalizeStatus(updated.Status)
	}

	t.apply(bookingID, func(b *models.Booking) {
		b.Rating = rating
		b.Review = review
		b.Status = newStatus
	})

	_ = t.bus.PublishJSON(events.EventBookingUpdated, events.BookingEventPayload{
		BookingID: bookingID,
		Status:    newStatus,
		Action:    "review",
	})
	return nil
}

// Filtered projects the in-memory set by the current filter. Pure and
// synchronous; never touches the network.
func (t *Tracker) Filtered() []models.Booking {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.filter == models.FilterAll {
		return append([]models.Booking(nil), t.bookings...)
	}

	var out []models.Booking
	for _, b := range t.bookings {
		if b.Status == t.filter {
			out = append(out, b)
		}
	}
	return out
}

// Bookings returns a copy of the full set.
func (t *Tracker) Bookings() []models.Booking {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Booking(nil), t.bookings...)
}

// CountByStatus tallies the full set for the filter tabs.
func (t *Tracker) CountByStatus() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := make(map[string]int, 5)
	counts[models.FilterAll] = len(t.bookings)
	for _, b := range t.bookings {
		counts[b.Status]++
	}
	return counts
}

// SetFilter switches the projection; invalid values are ignored.
func (t *Tracker) SetFilter(f string) {
	if !models.ValidFilter(f) {
		return
	}
	t.mu.Lock()
	t.filter = f
	t.mu.Unlock()
}

func (t *Tracker) Filter() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter
}

func (t *Tracker) Err() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errMsg
}

func (t *Tracker) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// ProviderMissing reports the provider-profile terminal state.
func (t *Tracker) ProviderMissing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.providerMissing
}

// ProviderID returns the resolved provider profile id, "" before a
// successful provider fetch.
func (t *Tracker) ProviderID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.providerID
}

// replace swaps in a freshly fetched set, normalized; no incremental merge.
func (t *Tracker) replace(fetched []models.Booking) {
	for i := range fetched {
		fetched[i].Normalize()
	}
	t.mu.Lock()
	t.bookings = fetched
	t.errMsg = ""
	t.mu.Unlock()
}

func (t *Tracker) apply(bookingID string, mutate func(*models.Booking)) {
	t.mu.Lock()
	for i := range t.bookings {
		if t.bookings[i].ID == bookingID {
			mutate(&t.bookings[i])
			break
		}
	}
	t.errMsg = ""
	t.mu.Unlock()
}

func (t *Tracker) setLoading(v bool) {
	t.mu.Lock()
	t.loading = v
	t.mu.Unlock()
}

func (t *Tracker) setError(msg string) {
	t.mu.Lock()
	t.errMsg = msg
	t.mu.Unlock()
}
