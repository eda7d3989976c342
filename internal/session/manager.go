package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"fixnear/internal/api"
	"fixnear/internal/events"
	"fixnear/internal/metrics"
	"fixnear/internal/models"
	"fixnear/internal/repository"

	"github.com/rs/zerolog"
)

// User-facing messages, mirrored by the UI verbatim.
const (
	MsgExpired     = "Session expired. Please log in again."
	MsgUnavailable = "Backend is currently unavailable. Some features may not work."
	MsgUnreachable = "Cannot reach backend. You're offline or the server is down."

	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
)

// Manager owns the current identity and bearer token, mirrors them to the
// session store, and revalidates them against the backend. Consumers learn
// about changes through the event bus, never by polling globals.
type Manager struct {
	client   *api.Client
	store    repository.SessionRepository
	bus      *events.EventBus
	logger   zerolog.Logger
	interval time.Duration

	mu      sync.RWMutex
	session *models.Session
	loading bool
	errMsg  string
}

func NewManager(client *api.Client, store repository.SessionRepository, bus *events.EventBus, interval time.Duration, logger zerolog.Logger) *Manager {
	if interval <= 0 {
		interval = time.Minute
	}
	m := &Manager{
		client:   client,
		store:    store,
		bus:      bus,
		logger:   logger,
		interval: interval,
	}
	// A 401 anywhere forces logout, not just on the validation ping.
	client.OnUnauthorized(m.expire)
	return m
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Identity returns the current identity, or nil when logged out.
func (m *Manager) Identity() *models.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.Identity == nil {
		return nil
	}
	copied := *m.session.Identity
	return &copied
}

// Authenticated reports whether a usable session exists.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Valid()
}

// Err returns the current error or warning message, "" when none.
func (m *Manager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errMsg
}

// Loading reports whether an auth request is in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Restore loads a previously persisted session. The next validation ping
// decides whether it is still alive; restore itself trusts the mirror.
func (m *Manager) Restore(ctx context.Context) error {
	session, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	m.logger.Info().Str("user_id", session.Identity.UserID).Msg("session restored from store")
	return nil
}

// Login exchanges credentials for a session. On failure the prior session
// is left untouched and the backend's reason (or a generic fallback) is
// recorded as the error message.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.setError(authFailureMessage(err, msgLoginFailed))
		return errors.New(m.Err())
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = msgLoginFailed
		}
		m.setError(msg)
		return errors.New(msg)
	}

	m.establish(ctx, resp)
	return nil
}

// Signup registers an account and establishes the session. The created
// identity is returned so dependent flows (provider registration) can use
// it before any subscriber reacts.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (*models.Identity, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.client.Signup(ctx, name, email, password)
	if err != nil {
		m.setError(authFailureMessage(err, msgSignupFailed))
		return nil, errors.New(m.Err())
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = msgSignupFailed
		}
		m.setError(msg)
		return nil, errors.New(msg)
	}

	identity := m.establish(ctx, resp)
	return identity, nil
}

// Logout clears the session synchronously. No network call is made.
func (m *Manager) Logout() {
	m.mu.Lock()
	payload := sessionPayload(m.session)
	m.session = nil
	m.errMsg = ""
	m.mu.Unlock()

	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
	_ = m.bus.PublishJSON(events.EventSessionEnded, payload)
}

// Validate pings a protected endpoint scoped to the current user. A 401
// destroys the session; any other failure only degrades it to a warning.
func (m *Manager) Validate(ctx context.Context) {
	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()

	if !session.Valid() {
		return
	}
	token := session.Token

	_, err := m.client.ListBookingsByUser(ctx, session.Identity.UserID)
	switch {
	case err == nil:
		metrics.IncSessionValidation("ok")
		m.setError("")
	case errors.Is(err, api.ErrUnauthorized):
		metrics.IncSessionValidation("expired")
		m.expire(token)
	case errors.Is(err, api.ErrUnreachable):
		metrics.IncSessionValidation("unreachable")
		m.setError(MsgUnreachable)
	default:
		metrics.IncSessionValidation("unavailable")
		m.setError(MsgUnavailable)
	}
}

// Run validates immediately and then on a fixed interval until ctx is
// cancelled. It is the only recurring task the client owns.
func (m *Manager) Run(ctx context.Context) {
	m.Validate(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug().Msg("session validation loop stopped")
			return
		case <-ticker.C:
			m.Validate(ctx)
		}
	}
}

// expire force-logs-out, but only if the session that failed validation is
// still the current one; a response racing a logout or re-login is ignored.
func (m *Manager) expire(staleToken string) {
	m.mu.Lock()
	if m.session == nil || m.session.Token != staleToken {
		m.mu.Unlock()
		return
	}
	payload := sessionPayload(m.session)
	payload.Reason = MsgExpired
	m.session = nil
	m.errMsg = MsgExpired
	m.mu.Unlock()

	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
	m.logger.Info().Str("user_id", payload.UserID).Msg("session expired, forced logout")
	_ = m.bus.PublishJSON(events.EventSessionExpired, payload)
}

func (m *Manager) establish(ctx context.Context, resp *api.AuthResponse) *models.Identity {
	identity := &models.Identity{UserID: resp.UserID, UserName: resp.UserName, Email: resp.Email}
	session := &models.Session{Token: resp.Token, Identity: identity}

	m.mu.Lock()
	m.session = session
	m.errMsg = ""
	m.mu.Unlock()

	if err := m.store.Save(ctx, session); err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist session")
	}

	m.logger.Info().Str("user_id", identity.UserID).Msg("session established")
	_ = m.bus.PublishJSON(events.EventSessionStarted, events.SessionEventPayload{
		UserID:   identity.UserID,
		UserName: identity.UserName,
		Email:    identity.Email,
	})

	copied := *identity
	return &copied
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	if v {
		m.errMsg = ""
	}
	m.mu.Unlock()
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.errMsg = msg
	m.mu.Unlock()
}

func sessionPayload(s *models.Session) events.SessionEventPayload {
	if s == nil || s.Identity == nil {
		return events.SessionEventPayload{}
	}
	return events.SessionEventPayload{
		UserID:   s.Identity.UserID,
		UserName: s.Identity.UserName,
		Email:    s.Identity.Email,
	}
}

// authFailureMessage turns a transport error into a user-facing reason.
func authFailureMessage(err error, fallback string) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrUnreachable):
		return MsgUnreachable
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	default:
		return fallback
	}
}
