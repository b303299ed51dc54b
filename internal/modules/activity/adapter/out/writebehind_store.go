package out

import (
	"context"
	"fmt"

	"mindshelf/internal/modules/activity/domain"
	"mindshelf/internal/platform/writeback"
)

// WriteBehindActivityStore serves reads from memory and replays every
// mutation against the hosted store through the writeback queue.
type WriteBehindActivityStore struct {
	ledger  *MemoryLedgerStore
	journal *MemoryJournalStore
	remote  *GormActivityStore
	queue   *writeback.Queue
}

func NewWriteBehindActivityStore(remote *GormActivityStore, queue *writeback.Queue) *WriteBehindActivityStore {
	return &WriteBehindActivityStore{
		ledger:  NewMemoryLedgerStore(),
		journal: NewMemoryJournalStore(),
		remote:  remote,
		queue:   queue,
	}
}

// Load reads everything from the hosted store into memory.
func (s *WriteBehindActivityStore) Load(ctx context.Context) error {
	counts, err := s.remote.Counts(ctx)
	if err != nil {
		return err
	}
	entries, err := s.remote.Tail(ctx, 0)
	if err != nil {
		return err
	}
	s.ledger.Seed(counts)
	s.journal.Seed(entries)
	return nil
}

func (s *WriteBehindActivityStore) Increment(ctx context.Context, day string) (int, error) {
	count, err := s.ledger.Increment(ctx, day)
	if err != nil {
		return 0, err
	}
	err = s.queue.Enqueue(writeback.Job{
		Name: fmt.Sprintf("activity.put %s=%d", day, count),
		Run: func(ctx context.Context) error {
			return s.remote.Put(ctx, day, count)
		},
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *WriteBehindActivityStore) Counts(ctx context.Context) (map[string]int, error) {
	return s.ledger.Counts(ctx)
}

func (s *WriteBehindActivityStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		return err
	}
	return s.queue.Enqueue(writeback.Job{
		Name: "journal.append " + entry.ID,
		Run: func(ctx context.Context) error {
			return s.remote.Append(ctx, entry)
		},
	})
}

func (s *WriteBehindActivityStore) Tail(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	return s.journal.Tail(ctx, limit)
}
