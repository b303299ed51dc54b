package out

import (
	"context"
	"sync"

	"mindshelf/internal/modules/activity/domain"
	activityout "mindshelf/internal/modules/activity/port/out"
)

type MemoryLedgerStore struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{counts: map[string]int{}}
}

var _ activityout.LedgerStore = (*MemoryLedgerStore)(nil)

func (s *MemoryLedgerStore) Increment(_ context.Context, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[day]++
	return s.counts[day], nil
}

func (s *MemoryLedgerStore) Counts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.counts))
	for day, count := range s.counts {
		out[day] = count
	}
	return out, nil
}

// Seed replaces the snapshot with counts loaded elsewhere.
func (s *MemoryLedgerStore) Seed(counts map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int, len(counts))
	for day, count := range counts {
		s.counts[day] = count
	}
}

type MemoryJournalStore struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry
}

func NewMemoryJournalStore() *MemoryJournalStore {
	return &MemoryJournalStore{}
}

var _ activityout.JournalStore = (*MemoryJournalStore)(nil)

func (s *MemoryJournalStore) Append(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryJournalStore) Tail(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.entries) > limit {
		start = len(s.entries) - limit
	}
	out := make([]domain.JournalEntry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out, nil
}

func (s *MemoryJournalStore) Seed(entries []domain.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]domain.JournalEntry(nil), entries...)
}
