package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
	"mindshelf/internal/platform/markdown"
)

// VaultBrainStore keeps the Brain as <vault>/brain.md so it can also be
// edited in any markdown editor.
type VaultBrainStore struct {
	path string
}

func NewVaultBrainStore(vaultPath string) *VaultBrainStore {
	return &VaultBrainStore{path: filepath.Join(vaultPath, "brain.md")}
}

var _ brainout.BrainStore = (*VaultBrainStore)(nil)

type brainFrontmatter struct {
	SchemaVersion int       `yaml:"schema_version"`
	Revision      int       `yaml:"revision"`
	UpdatedAt     time.Time `yaml:"updated_at"`
}

func (s *VaultBrainStore) Load(_ context.Context) (domain.Brain, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Brain{}, nil
	}
	if err != nil {
		return domain.Brain{}, fmt.Errorf("read brain: %w", err)
	}
	meta := brainFrontmatter{}
	body, err := markdown.DecodeFrontmatter(string(raw), &meta)
	if err != nil {
		return domain.Brain{}, fmt.Errorf("parse brain: %w", err)
	}
	return domain.Brain{
		Content:   strings.TrimPrefix(body, "\n"),
		Revision:  meta.Revision,
		UpdatedAt: meta.UpdatedAt,
	}, nil
}

// Save writes the note atomically. The body always starts after exactly one
// blank line so Load can restore the content byte for byte.
func (s *VaultBrainStore) Save(_ context.Context, brain domain.Brain) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	meta := brainFrontmatter{SchemaVersion: domain.SchemaVersion, Revision: brain.Revision, UpdatedAt: brain.UpdatedAt}
	rendered, err := markdown.RenderFrontmatter(meta, "\n"+brain.Content)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write brain: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace brain: %w", err)
	}
	return nil
}
