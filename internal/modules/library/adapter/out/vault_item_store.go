package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/markdown"
)

// VaultItemStore keeps one markdown note per item under <vault>/items. The
// note body is the raw content followed by a managed, human-readable
// analysis block that is regenerated on every save.
type VaultItemStore struct {
	vaultPath string
}

func NewVaultItemStore(vaultPath string) libraryout.ItemStore {
	return &VaultItemStore{vaultPath: vaultPath}
}

type itemFrontmatter struct {
	SchemaVersion    int                         `yaml:"schema_version"`
	ID               string                      `yaml:"id"`
	Kind             string                      `yaml:"kind"`
	SourceKind       string                      `yaml:"source_kind"`
	SourceRef        string                      `yaml:"source_ref"`
	Title            string                      `yaml:"title"`
	Language         string                      `yaml:"language"`
	Tags             []string                    `yaml:"tags"`
	AnalysisStatus   string                      `yaml:"analysis_status"`
	LifecycleStatus  string                      `yaml:"lifecycle_status"`
	IsTestPassed     bool                        `yaml:"is_test_passed"`
	FetchFailed      bool                        `yaml:"fetch_failed,omitempty"`
	Summary          string                      `yaml:"summary"`
	ImprovementGuide string                      `yaml:"improvement_guide,omitempty"`
	Keywords         []domain.KeywordEntry       `yaml:"keyword_glossary,omitempty"`
	Patterns         []domain.ImprovementPattern `yaml:"improvement_patterns,omitempty"`
	AddedAt          time.Time                   `yaml:"added_at"`
	UpdatedAt        time.Time                   `yaml:"updated_at"`
}

func (s *VaultItemStore) Save(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	path, err := s.notePath(item.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create items directory: %w", err)
	}
	body := markdown.ReplaceManagedBlock(item.RawContent, domain.ManagedAnalysisStart, domain.ManagedAnalysisEnd, renderAnalysisBlock(item))
	rendered, err := markdown.RenderFrontmatter(toFrontmatter(item), body)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write item note: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace item note: %w", err)
	}
	return nil
}

func (s *VaultItemStore) FindByID(_ context.Context, id string) (domain.Item, error) {
	path, err := s.notePath(id)
	if err != nil {
		return domain.Item{}, apperrors.ErrNotFound
	}
	item, err := readItemNote(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Item{}, apperrors.ErrNotFound
	}
	return item, err
}

func (s *VaultItemStore) List(_ context.Context) ([]domain.Item, error) {
	matches, err := filepath.Glob(filepath.Join(s.vaultPath, "items", "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob item notes: %w", err)
	}
	sort.Strings(matches)
	out := make([]domain.Item, 0, len(matches))
	for _, path := range matches {
		item, err := readItemNote(path)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *VaultItemStore) Delete(_ context.Context, id string) error {
	path, err := s.notePath(id)
	if err != nil {
		return apperrors.ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("delete item note: %w", err)
	}
	return nil
}

func (s *VaultItemStore) notePath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: invalid item id %q", apperrors.ErrInvalidInput, id)
	}
	return filepath.Join(s.vaultPath, "items", id+".md"), nil
}

func readItemNote(path string) (domain.Item, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Item{}, fmt.Errorf("read %s: %w", path, err)
	}
	meta := itemFrontmatter{}
	body, err := markdown.DecodeFrontmatter(string(content), &meta)
	if err != nil {
		return domain.Item{}, fmt.Errorf("parse %s: %w", path, err)
	}
	_, raw, _ := markdown.ExtractManagedBlock(body, domain.ManagedAnalysisStart, domain.ManagedAnalysisEnd)
	item := fromFrontmatter(meta)
	item.RawContent = strings.TrimSuffix(strings.TrimPrefix(raw, "\n"), "\n")
	if err := item.Validate(); err != nil {
		return domain.Item{}, fmt.Errorf("decode item %s: %w", path, err)
	}
	return item, nil
}

func toFrontmatter(item domain.Item) itemFrontmatter {
	return itemFrontmatter{
		SchemaVersion:    domain.SchemaVersion,
		ID:               item.ID,
		Kind:             string(item.Kind),
		SourceKind:       string(item.SourceKind),
		SourceRef:        item.SourceRef,
		Title:            item.Title,
		Language:         item.Language,
		Tags:             item.Tags,
		AnalysisStatus:   string(item.AnalysisStatus),
		LifecycleStatus:  string(item.LifecycleStatus),
		IsTestPassed:     item.IsTestPassed,
		FetchFailed:      item.FetchFailed,
		Summary:          item.Summary,
		ImprovementGuide: item.ImprovementGuide,
		Keywords:         item.Keywords,
		Patterns:         item.Patterns,
		AddedAt:          item.AddedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}
}

func fromFrontmatter(meta itemFrontmatter) domain.Item {
	return domain.Item{
		ID:               meta.ID,
		Kind:             domain.Kind(meta.Kind),
		SourceKind:       domain.SourceKind(meta.SourceKind),
		SourceRef:        meta.SourceRef,
		Title:            meta.Title,
		Language:         meta.Language,
		Tags:             meta.Tags,
		AnalysisStatus:   domain.AnalysisStatus(meta.AnalysisStatus),
		LifecycleStatus:  domain.LifecycleStatus(meta.LifecycleStatus),
		IsTestPassed:     meta.IsTestPassed,
		FetchFailed:      meta.FetchFailed,
		Summary:          meta.Summary,
		ImprovementGuide: meta.ImprovementGuide,
		Keywords:         meta.Keywords,
		Patterns:         meta.Patterns,
		AddedAt:          meta.AddedAt,
		UpdatedAt:        meta.UpdatedAt,
	}
}

func renderAnalysisBlock(item domain.Item) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString(item.Summary)
	if len(item.Keywords) > 0 {
		b.WriteString("\n\n## Keywords\n")
		for _, k := range item.Keywords {
			fmt.Fprintf(&b, "\n- **%s** (%d): %s", k.Word, k.Count, k.Definition)
		}
	}
	if item.ImprovementGuide != "" {
		b.WriteString("\n\n## Improvement guide\n\n")
		b.WriteString(item.ImprovementGuide)
	}
	return b.String()
}
