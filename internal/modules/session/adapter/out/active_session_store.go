package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mindshelf/internal/modules/session/domain"
	sessionout "mindshelf/internal/modules/session/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(homePath string) *FileActiveSessionStore {
	return &FileActiveSessionStore{path: filepath.Join(homePath, ".mindshelf", "active-session.json")}
}

var _ sessionout.ActiveSessionStore = (*FileActiveSessionStore)(nil)

func (s *FileActiveSessionStore) Path() string { return s.path }

func (s *FileActiveSessionStore) SaveActive(_ context.Context, record domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.Record, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Record{}, apperrors.ErrNoActiveSession
		}
		return domain.Record{}, fmt.Errorf("read active session: %w", err)
	}
	var record domain.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.Record{}, fmt.Errorf("decode active session: %w", err)
	}
	if record.Kind == "" {
		return domain.Record{}, apperrors.ErrNoActiveSession
	}
	return record, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
