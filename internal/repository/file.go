package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fixnear/internal/models"
)

// FileSessionRepository keeps the session as a JSON document on disk,
// the terminal-client analog of the browser's local storage.
type FileSessionRepository struct {
	path string
}

func NewFileSessionRepository(path string) *FileSessionRepository {
	return &FileSessionRepository{path: path}
}

func (r *FileSessionRepository) Load(ctx context.Context) (*models.Session, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt mirror is worth less than no mirror.
		return nil, nil
	}
	if !session.Valid() {
		return nil, nil
	}
	return &session, nil
}

func (r *FileSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if session == nil {
		return r.Clear(ctx)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Token material, owner-only
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (r *FileSessionRepository) Clear(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
