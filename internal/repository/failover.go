package repository

import (
	"context"
	"sync/atomic"
	"time"

	"fixnear/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository reads and writes through a primary store and
// falls back to a secondary one when the primary errors, probing the
// primary again after a minute.
type FailoverSessionRepository struct {
	primary   SessionRepository
	fallback  SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) Load(ctx context.Context) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.Load(ctx)
		if err == nil {
			return session, nil
		}
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		session, err := r.primary.Load(ctx)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Load(ctx)
}

func (r *FailoverSessionRepository) Save(ctx context.Context, session *models.Session) error {
	// Always mirror to the fallback so a later failover still has state.
	_ = r.fallback.Save(ctx, session)

	if !r.isDown.Load() {
		if err := r.primary.Save(ctx, session); err != nil {
			r.logger.Error().Err(err).Msg("Primary session store save failed")
			r.isDown.Store(true)
			r.lastCheck = time.Now()
			return nil
		}
	}
	return nil
}

func (r *FailoverSessionRepository) Clear(ctx context.Context) error {
	_ = r.fallback.Clear(ctx)

	if err := r.primary.Clear(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Primary session store clear failed")
	}
	return nil
}
