package repository

import (
	"context"
	"sync"

	"fixnear/internal/models"
)

// MemorySessionRepository is an ephemeral mirror for tests and runs that
// should not leave a session on disk.
type MemorySessionRepository struct {
	mu      sync.Mutex
	session *models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) Load(ctx context.Context) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil, nil
	}
	copied := *r.session
	return &copied, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session == nil {
		r.session = nil
		return nil
	}
	copied := *session
	r.session = &copied
	return nil
}

func (r *MemorySessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = nil
	return nil
}
