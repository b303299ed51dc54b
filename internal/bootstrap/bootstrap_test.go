package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sessiondomain "mindshelf/internal/modules/session/domain"
	"mindshelf/internal/platform/config"
	apperrors "mindshelf/internal/platform/errors"
)

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewRequiresActiveSession(t *testing.T) {
	t.Parallel()
	cfg := config.Default(t.TempDir())
	if _, err := New(context.Background(), cfg, nil); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
}

func TestGuestSessionKeepsEverythingInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	home := t.TempDir()
	cfg := config.Default(home)
	if _, err := Sessions(cfg, nil).Guest(ctx); err != nil {
		t.Fatalf("guest: %v", err)
	}

	app, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	doc := writeDoc(t, t.TempDir(), "notes.md", "# Channels\nSend and receive.")
	item, err := app.LibraryCLI.IngestDocument(ctx, doc, true)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if item.AnalysisStatus != "completed" || item.Title != "Channels" {
		t.Fatalf("unexpected item %+v", item)
	}
	if _, err := app.BrainCLI.Edit(ctx, "Channels carry values."); err != nil {
		t.Fatalf("edit brain: %v", err)
	}
	app.Close()

	if _, err := os.Stat(filepath.Join(home, "vaults")); !os.IsNotExist(err) {
		t.Fatalf("guest session must not create a vault: %v", err)
	}
	if _, err := os.Stat(cfg.DBPath); !os.IsNotExist(err) {
		t.Fatalf("guest session must not create a database: %v", err)
	}

	again, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	items, err := again.LibraryCLI.ListItems(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("guest data must not survive a restart: %d items (%v)", len(items), err)
	}
}

func TestPersistedSessionUsesVaultAndSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	home := t.TempDir()
	cfg := config.Default(home)
	if _, err := Sessions(cfg, nil).Login(ctx, "alice"); err != nil {
		t.Fatalf("login: %v", err)
	}

	app, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	doc := writeDoc(t, t.TempDir(), "notes.md", "# Channels\nSend and receive.")
	item, err := app.LibraryCLI.IngestDocument(ctx, doc, true)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	opened, err := app.ReaderCLI.Open(ctx, item.ID, false)
	if err != nil || opened.LifecycleStatus != "reading" {
		t.Fatalf("open: %+v (%v)", opened, err)
	}
	if _, err := app.BrainCLI.Edit(ctx, "Channels carry values."); err != nil {
		t.Fatalf("edit brain: %v", err)
	}
	summary, err := app.ActivityCLI.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total < 2 {
		t.Fatalf("expected reading and brain edit in the ledger, got %+v", summary)
	}
	app.Close()

	brain, err := os.ReadFile(filepath.Join(VaultPath(cfg, "alice"), "brain.md"))
	if err != nil || !strings.Contains(string(brain), "Channels carry values.") {
		t.Fatalf("brain note not written: %v", err)
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Fatalf("sqlite database missing: %v", err)
	}

	again, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.LibraryCLI.GetItem(ctx, item.ID)
	if err != nil || got.LifecycleStatus != "reading" {
		t.Fatalf("item not persisted: %+v (%v)", got, err)
	}
	after, err := again.ActivityCLI.Summary(ctx)
	if err != nil || after.Total != summary.Total {
		t.Fatalf("ledger not persisted: %+v (%v)", after, err)
	}
}

func TestIdentityLabelsSessions(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if got := Identity(sessiondomain.LocalOnlySession{StartedAt: now}); got != "guest" {
		t.Fatalf("guest label = %q", got)
	}
	if got := Identity(sessiondomain.PersistedSession{UserID: "alice", StartedAt: now}); got != "alice" {
		t.Fatalf("persisted label = %q", got)
	}
}
