package models

import "strings"

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"

	FilterAll = "all"
)

// Booking is one service request linking a customer to a provider profile.
// The backend is the sole source of truth for Status; the client only
// normalizes the casing it receives.
type Booking struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName,omitempty"`
	ProviderID   string  `json:"providerId"`
	ProviderName string  `json:"providerName,omitempty"`
	Service      string  `json:"service,omitempty"`
	Location     string  `json:"location,omitempty"`
	Price        float64 `json:"price,omitempty"`
	BookingDate  string  `json:"bookingDate,omitempty"`
	ServiceType  string  `json:"serviceType,omitempty"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	Rating       int     `json:"rating,omitempty"`
	Review       string  `json:"review,omitempty"`
}

// NormalizeStatus lower-cases a server-supplied status and maps anything
// outside the known set (including empty) to pending.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StatusAccepted:
		return StatusAccepted
	case StatusRejected:
		return StatusRejected
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Normalize applies status normalization in place.
func (b *Booking) Normalize() {
	b.Status = NormalizeStatus(b.Status)
}

// Rated reports whether a review has already been recorded.
func (b *Booking) Rated() bool {
	return b.Rating > 0
}

// ValidFilter reports whether f is a usable booking filter value.
func ValidFilter(f string) bool {
	switch f {
	case FilterAll, StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}
