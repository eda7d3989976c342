package repository

import (
	"context"

	"fixnear/internal/models"
)

// SessionRepository mirrors the current session to durable storage so a
// restart can restore it without re-authenticating. The mirror is a cache;
// the backend validation ping decides whether the session is still alive.
type SessionRepository interface {
	// Load returns the stored session, or (nil, nil) when none exists.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}
