package api

import (
	"context"
	"fmt"
	"net/url"

	"fixnear/internal/models"
)

// BookingRequest is the payload for creating a booking. BookingDate is an
// ISO local datetime, e.g. 2026-09-01T09:00:00.
type BookingRequest struct {
	UserID      string `json:"userId"`
	ProviderID  string `json:"providerId"`
	BookingDate string `json:"bookingDate"`
	ServiceType string `json:"serviceType"`
	Description string `json:"description"`
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// ListBookingsByUser returns the customer's bookings. Statuses come back in
// whatever casing the backend uses; callers normalize.
func (c *Client) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	endpoint := "/api/bookings?userId=" + url.QueryEscape(userID)
	var bookings []models.Booking
	if err := c.doGet(ctx, endpoint, "bookings_by_user", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListBookingsByProvider returns bookings addressed to a provider profile.
func (c *Client) ListBookingsByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	endpoint := "/api/bookings?providerId=" + url.QueryEscape(providerID)
	var bookings []models.Booking
	if err := c.doGet(ctx, endpoint, "bookings_by_provider", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking submits a new booking request.
func (c *Client) CreateBooking(ctx context.Context, req *BookingRequest) (*models.Booking, error) {
	var created models.Booking
	if err := c.doJSON(ctx, "POST", "/api/bookings", "booking_create", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CancelBooking deletes a pending booking. Legality is enforced server-side.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	endpoint := fmt.Sprintf("/api/bookings/%s", url.PathEscape(bookingID))
	return c.doDelete(ctx, endpoint, "booking_cancel")
}

// UpdateBookingStatus requests a transition (ACCEPTED, REJECTED, COMPLETED).
// The returned booking may be nil when the backend answers with no body;
// when present its status is authoritative.
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID, status, reason string) (*models.Booking, error) {
	endpoint := fmt.Sprintf("/api/bookings/%s/status", url.PathEscape(bookingID))
	var updated models.Booking
	if err := c.doJSON(ctx, "PUT", endpoint, "booking_status", statusRequest{Status: status, Reason: reason}, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" && updated.Status == "" {
		return nil, nil
	}
	return &updated, nil
}

// AddBookingReview attaches a rating and optional review text to a
// completed booking.
func (c *Client) AddBookingReview(ctx context.Context, bookingID string, rating int, review string) (*models.Booking, error) {
	endpoint := fmt.Sprintf("/api/bookings/%s/review", url.PathEscape(bookingID))
	var updated models.Booking
	if err := c.doJSON(ctx, "PUT", endpoint, "booking_review", reviewRequest{Rating: rating, Review: review}, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" && updated.Status == "" {
		return nil, nil
	}
	return &updated, nil
}
