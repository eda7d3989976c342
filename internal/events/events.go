package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSessionStarted   = "session_started"
	EventSessionEnded     = "session_ended"
	EventSessionExpired   = "session_expired"
	EventBookingUpdated   = "booking_updated"
	EventBookingCancelled = "booking_cancelled"
)

// SessionEventPayload is the snapshot published on session changes.
type SessionEventPayload struct {
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// BookingEventPayload describes a booking transition for event consumers.
type BookingEventPayload struct {
	BookingID  string `json:"booking_id"`
	UserID     string `json:"user_id,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Action     string `json:"action,omitempty"`
}

// Event represents a lightweight in-process event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub, the explicit subscribe/notify
// channel between the session manager and its consumers.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
