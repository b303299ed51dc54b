package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	activityoutadapter "mindshelf/internal/modules/activity/adapter/out"
	activityout "mindshelf/internal/modules/activity/port/out"
	brainoutadapter "mindshelf/internal/modules/brain/adapter/out"
	brainout "mindshelf/internal/modules/brain/port/out"
	libraryoutadapter "mindshelf/internal/modules/library/adapter/out"
	libraryout "mindshelf/internal/modules/library/port/out"
	sessiondomain "mindshelf/internal/modules/session/domain"
	"mindshelf/internal/platform/config"
	"mindshelf/internal/platform/database"
	"mindshelf/internal/platform/logger"
	"mindshelf/internal/platform/writeback"
)

const guestUserID = "guest"

// storeSet is every persistence port the modules need for one session.
type storeSet struct {
	userID  string
	backend string

	items   libraryout.ItemStore
	index   libraryout.ItemIndexProjector
	brain   brainout.BrainStore
	ledger  activityout.LedgerStore
	journal activityout.JournalStore

	// reindexOnStart rebuilds an in-memory tag index from the item store.
	reindexOnStart bool
	queue          *writeback.Queue
	closers        []func() error
}

func (s *storeSet) close(log *logger.Logger) {
	if s.queue != nil {
		s.queue.Close()
		for _, f := range s.queue.Failed() {
			log.Error("remote write lost", "job", f.Name, "error", f.Err, "failed_at", f.FailedAt)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn("close store", "error", err)
		}
	}
}

// openStores is the only place that looks at the session capability.
func openStores(ctx context.Context, cfg config.Config, current sessiondomain.Session, log *logger.Logger) (*storeSet, error) {
	open := sessiondomain.Match(current,
		func(sessiondomain.LocalOnlySession) func() (*storeSet, error) {
			return func() (*storeSet, error) { return memoryStores(), nil }
		},
		func(p sessiondomain.PersistedSession) func() (*storeSet, error) {
			return func() (*storeSet, error) {
				if cfg.Database.Backend == config.BackendPostgres {
					return postgresStores(ctx, cfg, p.UserID, log)
				}
				return vaultStores(cfg, p.UserID)
			}
		},
	)
	return open()
}

func memoryStores() *storeSet {
	return &storeSet{
		userID:  guestUserID,
		backend: "memory",
		items:   libraryoutadapter.NewMemoryItemStore(),
		index:   libraryoutadapter.NewMemoryItemIndex(),
		brain:   brainoutadapter.NewMemoryBrainStore(),
		ledger:  activityoutadapter.NewMemoryLedgerStore(),
		journal: activityoutadapter.NewMemoryJournalStore(),
	}
}

// VaultPath is where a persisted user's markdown notes live.
func VaultPath(cfg config.Config, userID string) string {
	return filepath.Join(cfg.HomePath, "vaults", userID)
}

func vaultStores(cfg config.Config, userID string) (*storeSet, error) {
	vault := VaultPath(cfg, userID)
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	index, err := libraryoutadapter.NewSQLiteItemProjector(db, userID)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new item projector: %w", err)
	}
	ledger, err := activityoutadapter.NewSQLiteLedgerStore(db, userID)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new ledger store: %w", err)
	}
	return &storeSet{
		userID:  userID,
		backend: config.BackendVault,
		items:   libraryoutadapter.NewVaultItemStore(vault),
		index:   index,
		brain:   brainoutadapter.NewVaultBrainStore(vault),
		ledger:  ledger,
		journal: activityoutadapter.NewFileJournalStore(vault),
		closers: []func() error{db.Close},
	}, nil
}

func postgresStores(ctx context.Context, cfg config.Config, userID string, log *logger.Logger) (*storeSet, error) {
	gdb, err := database.OpenPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	var sqlDB *sql.DB
	if sqlDB, err = gdb.DB(); err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	fail := func(err error) (*storeSet, error) {
		_ = sqlDB.Close()
		return nil, err
	}

	remoteItems, err := libraryoutadapter.NewGormItemStore(gdb, userID)
	if err != nil {
		return fail(fmt.Errorf("new item store: %w", err))
	}
	remoteBrain, err := brainoutadapter.NewGormBrainStore(gdb, userID)
	if err != nil {
		return fail(fmt.Errorf("new brain store: %w", err))
	}
	remoteActivity, err := activityoutadapter.NewGormActivityStore(gdb, userID)
	if err != nil {
		return fail(fmt.Errorf("new activity store: %w", err))
	}

	queue := writeback.NewQueue(log, writeback.Options{
		MaxAttempts: cfg.Writeback.MaxAttempts,
		RetryDelay:  cfg.Writeback.RetryDelay,
		QueueSize:   cfg.Writeback.QueueSize,
	})
	items := libraryoutadapter.NewWriteBehindItemStore(remoteItems, queue)
	brain := brainoutadapter.NewWriteBehindBrainStore(remoteBrain, queue)
	activity := activityoutadapter.NewWriteBehindActivityStore(remoteActivity, queue)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return items.Load(gctx) })
	g.Go(func() error { return brain.Warm(gctx) })
	g.Go(func() error { return activity.Load(gctx) })
	if err := g.Wait(); err != nil {
		queue.Close()
		return fail(fmt.Errorf("load remote state: %w", err))
	}

	return &storeSet{
		userID:         userID,
		backend:        config.BackendPostgres,
		items:          items,
		index:          libraryoutadapter.NewMemoryItemIndex(),
		brain:          brain,
		ledger:         activity,
		journal:        activity,
		reindexOnStart: true,
		queue:          queue,
		closers:        []func() error{sqlDB.Close},
	}, nil
}
