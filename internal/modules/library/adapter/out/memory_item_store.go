package out

import (
	"context"
	"sort"
	"sync"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// MemoryItemStore holds items for guest sessions and backs the write-behind
// snapshot.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: map[string]domain.Item{}}
}

var _ libraryout.ItemStore = (*MemoryItemStore)(nil)

func (s *MemoryItemStore) Save(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = cloneItem(item)
	return nil
}

func (s *MemoryItemStore) FindByID(_ context.Context, id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, apperrors.ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryItemStore) List(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryItemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Seed replaces the contents with items loaded elsewhere.
func (s *MemoryItemStore) Seed(items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]domain.Item, len(items))
	for _, item := range items {
		s.items[item.ID] = cloneItem(item)
	}
}

func cloneItem(item domain.Item) domain.Item {
	item.Tags = append([]string(nil), item.Tags...)
	item.Keywords = append([]domain.KeywordEntry(nil), item.Keywords...)
	item.Patterns = append([]domain.ImprovementPattern(nil), item.Patterns...)
	return item
}

// MemoryItemIndex answers tag queries without a database.
type MemoryItemIndex struct {
	mu   sync.RWMutex
	tags map[string][]string
}

func NewMemoryItemIndex() *MemoryItemIndex {
	return &MemoryItemIndex{tags: map[string][]string{}}
}

var _ libraryout.ItemIndexProjector = (*MemoryItemIndex)(nil)

func (x *MemoryItemIndex) Reset(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.tags = map[string][]string{}
	return nil
}

func (x *MemoryItemIndex) UpsertItem(_ context.Context, item domain.Item) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.tags[item.ID] = append([]string(nil), item.Tags...)
	return nil
}

func (x *MemoryItemIndex) DeleteItem(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.tags, id)
	return nil
}

func (x *MemoryItemIndex) TagCounts(context.Context) ([]domain.TagCount, error) {
	x.mu.RLock()
	counts := map[string]int{}
	for _, tags := range x.tags {
		for _, tag := range tags {
			counts[tag]++
		}
	}
	x.mu.RUnlock()
	return sortTagCounts(counts), nil
}

func sortTagCounts(counts map[string]int) []domain.TagCount {
	out := make([]domain.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, domain.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
