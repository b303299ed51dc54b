package out

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mindshelf/internal/modules/activity/domain"
	"mindshelf/internal/platform/database"
	"mindshelf/internal/platform/logger"
	"mindshelf/internal/platform/writeback"
)

func TestSQLiteLedgerStoreIncrementsPerUser(t *testing.T) {
	t.Parallel()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	alice, err := NewSQLiteLedgerStore(db, "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	bob, err := NewSQLiteLedgerStore(db, "bob")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		count, err := alice.Increment(ctx, "2026-04-01")
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}
	if _, err := bob.Increment(ctx, "2026-04-01"); err != nil {
		t.Fatalf("increment bob: %v", err)
	}

	counts, err := alice.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 1 || counts["2026-04-01"] != 3 {
		t.Fatalf("unexpected alice counts: %v", counts)
	}
}

func TestFileJournalStoreTailKeepsNewest(t *testing.T) {
	t.Parallel()
	store := NewFileJournalStore(t.TempDir())
	ctx := context.Background()

	empty, err := store.Tail(ctx, 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty journal, got %v (%v)", empty, err)
	}
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := domain.JournalEntry{ID: fmt.Sprintf("e%d", i), Body: fmt.Sprintf("day %d", i), PostedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Append(ctx, domain.JournalEntry{ID: "bad"}); err == nil {
		t.Fatalf("expected validation error for empty body")
	}

	tail, err := store.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(tail) != 2 || tail[0].ID != "e3" || tail[1].ID != "e4" {
		t.Fatalf("unexpected tail: %+v", tail)
	}
}

func openGorm(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "hosted.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm sqlite: %v", err)
	}
	return db
}

func TestGormActivityStoreLedgerAndJournal(t *testing.T) {
	t.Parallel()
	store, err := NewGormActivityStore(openGorm(t), "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Increment(ctx, "2026-04-02"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	count, err := store.Increment(ctx, "2026-04-02")
	if err != nil || count != 2 {
		t.Fatalf("expected count 2, got %d (%v)", count, err)
	}
	if err := store.Put(ctx, "2026-04-03", 7); err != nil {
		t.Fatalf("put: %v", err)
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["2026-04-02"] != 2 || counts["2026-04-03"] != 7 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	base := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := domain.JournalEntry{ID: fmt.Sprintf("j%d", i), Body: "note", PostedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Append(ctx, domain.JournalEntry{ID: "j0", Body: "dup", PostedAt: base}); err != nil {
		t.Fatalf("duplicate append should be ignored: %v", err)
	}
	tail, err := store.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(tail) != 2 || tail[0].ID != "j1" || tail[1].ID != "j2" {
		t.Fatalf("unexpected tail: %+v", tail)
	}
}

func TestWriteBehindActivityStoreReplaysToRemote(t *testing.T) {
	t.Parallel()
	remote, err := NewGormActivityStore(openGorm(t), "alice")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if err := remote.Put(ctx, "2026-04-01", 4); err != nil {
		t.Fatalf("seed remote: %v", err)
	}

	queue := writeback.NewQueue(logger.Nop(), writeback.Options{MaxAttempts: 2, RetryDelay: time.Millisecond})
	defer queue.Close()
	store := NewWriteBehindActivityStore(remote, queue)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	count, err := store.Increment(ctx, "2026-04-01")
	if err != nil || count != 5 {
		t.Fatalf("expected local count 5, got %d (%v)", count, err)
	}
	entry := domain.JournalEntry{ID: "j1", Body: "hello", PostedAt: time.Now().UTC()}
	if err := store.Append(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	queue.Flush()

	counts, err := remote.Counts(ctx)
	if err != nil || counts["2026-04-01"] != 5 {
		t.Fatalf("remote not updated: %v (%v)", counts, err)
	}
	tail, err := remote.Tail(ctx, 10)
	if err != nil || len(tail) != 1 || tail[0].Body != "hello" {
		t.Fatalf("remote journal not updated: %+v (%v)", tail, err)
	}
	if failed := queue.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}
