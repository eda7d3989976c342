package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixnear",
			Name:      "api_requests_total",
			Help:      "Backend API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	sessionValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixnear",
			Name:      "session_validations_total",
			Help:      "Periodic session validation pings by result.",
		},
		[]string{"result"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixnear",
			Name:      "booking_transitions_total",
			Help:      "Booking lifecycle transitions by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, sessionValidations, bookingTransitions)
	})
}

// IncAPIRequest increments the request counter for an endpoint/outcome pair.
// Outcome is one of ok, error, unauthorized, unreachable.
func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncSessionValidation increments the validation counter for a result label.
func IncSessionValidation(result string) {
	sessionValidations.WithLabelValues(result).Inc()
}

// IncBookingTransition increments the transition counter for an action.
// Outcome is ok for an applied transition, error for a failed request.
func IncBookingTransition(action, outcome string) {
	bookingTransitions.WithLabelValues(action, outcome).Inc()
}
