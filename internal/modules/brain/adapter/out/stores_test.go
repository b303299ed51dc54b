package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mindshelf/internal/modules/brain/domain"
	"mindshelf/internal/platform/logger"
	"mindshelf/internal/platform/writeback"
)

func TestVaultBrainStoreRoundTripsContentExactly(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	store := NewVaultBrainStore(vault)
	ctx := context.Background()

	empty, err := store.Load(ctx)
	if err != nil || empty.Content != "" || empty.Revision != 0 {
		t.Fatalf("missing file should load as empty brain: %v %+v", err, empty)
	}

	contents := []string{
		"# Brain\n\n---\n\nsection after a rule\n",
		"\n\nstarts with blank lines",
		"",
	}
	for i, content := range contents {
		brain := domain.Brain{Content: content, Revision: i + 1, UpdatedAt: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
		if err := store.Save(ctx, brain); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if got.Content != content || got.Revision != i+1 || !got.UpdatedAt.Equal(brain.UpdatedAt) {
			t.Fatalf("round trip %d mismatch: %q rev=%d", i, got.Content, got.Revision)
		}
	}

	raw, err := os.ReadFile(filepath.Join(vault, "brain.md"))
	if err != nil || !strings.HasPrefix(string(raw), "---\nschema_version: 1\n") {
		t.Fatalf("unexpected note header: %v %q", err, raw)
	}
}

func openGorm(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "brain.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm sqlite: %v", err)
	}
	return db
}

func TestGormBrainStoreUpsertsPerUser(t *testing.T) {
	t.Parallel()
	db := openGorm(t)
	alice, err := NewGormBrainStore(db, "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	bob, _ := NewGormBrainStore(db, "bob")
	ctx := context.Background()

	if err := alice.Save(ctx, domain.Brain{Content: "v1", Revision: 1, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("save v1: %v", err)
	}
	if err := alice.Save(ctx, domain.Brain{Content: "v1\n\nv2", Revision: 2, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("save v2: %v", err)
	}
	got, err := alice.Load(ctx)
	if err != nil || got.Content != "v1\n\nv2" || got.Revision != 2 {
		t.Fatalf("unexpected alice brain: %v %+v", err, got)
	}
	other, err := bob.Load(ctx)
	if err != nil || other.Content != "" {
		t.Fatalf("bob should have an empty brain: %v %+v", err, other)
	}
}

type flakyBrainStore struct {
	MemoryBrainStore
	failures int
}

func (f *flakyBrainStore) Save(ctx context.Context, brain domain.Brain) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	return f.MemoryBrainStore.Save(ctx, brain)
}

func TestWriteBehindBrainStoreRetriesRemoteWrites(t *testing.T) {
	t.Parallel()
	remote := &flakyBrainStore{failures: 2}
	_ = remote.MemoryBrainStore.Save(context.Background(), domain.Brain{Content: "hosted", Revision: 4})
	queue := writeback.NewQueue(logger.Nop(), writeback.Options{MaxAttempts: 3, RetryDelay: time.Millisecond, QueueSize: 8})
	t.Cleanup(queue.Close)
	store := NewWriteBehindBrainStore(remote, queue)
	ctx := context.Background()

	if err := store.Warm(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if got, _ := store.Load(ctx); got.Content != "hosted" || got.Revision != 4 {
		t.Fatalf("warm did not load hosted brain: %+v", got)
	}
	if err := store.Save(ctx, domain.Brain{Content: "hosted\n\nnew", Revision: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := store.Load(ctx); got.Revision != 5 {
		t.Fatalf("local snapshot not updated: %+v", got)
	}
	queue.Flush()
	if got, _ := remote.Load(ctx); got.Revision != 5 || got.Content != "hosted\n\nnew" {
		t.Fatalf("remote not updated after retries: %+v", got)
	}
	if failed := queue.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected dead letters: %+v", failed)
	}
}

type fakeCompleter struct {
	reply string
	user  string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string, _ bool) (string, error) {
	f.user = user
	return f.reply, f.err
}

func TestOpenAIProposalGenerator(t *testing.T) {
	t.Parallel()
	llm := &fakeCompleter{reply: "\n## Pipelines\n- bounded stages\n\n"}
	gen := NewOpenAIProposalGenerator(llm, 5)

	got, err := gen.Propose(context.Background(), domain.Source{Title: "Pipelines", Content: "abcdefghij", Language: "ja"}, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if got != "## Pipelines\n- bounded stages" {
		t.Fatalf("proposal not trimmed: %q", got)
	}
	if !strings.Contains(llm.user, "Write in Japanese.") || !strings.Contains(llm.user, "(empty)") {
		t.Fatalf("prompt missing language or empty marker: %q", llm.user)
	}
	if !strings.Contains(llm.user, "Material:\nabcde") || strings.Contains(llm.user, "abcdef") {
		t.Fatalf("material not bounded: %q", llm.user)
	}

	llm.reply = "  "
	if _, err := gen.Propose(context.Background(), domain.Source{}, "x"); err == nil {
		t.Fatalf("expected error for empty proposal")
	}
}
