package out

import (
	"context"

	"mindshelf/internal/modules/activity/domain"
)

// LedgerStore persists the per-day activity counters.
type LedgerStore interface {
	// Increment adds one to day's bucket, creating it when absent, and
	// returns the new count.
	Increment(ctx context.Context, day string) (int, error)
	Counts(ctx context.Context) (map[string]int, error)
}

type JournalStore interface {
	Append(ctx context.Context, entry domain.JournalEntry) error
	// Tail returns at most limit entries, oldest first.
	Tail(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}

type ChangeNotifier interface {
	ActivityRecorded(ctx context.Context, day string, count int)
}
