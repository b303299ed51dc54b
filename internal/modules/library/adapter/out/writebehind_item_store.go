package out

import (
	"context"
	"errors"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/writeback"
)

// WriteBehindItemStore answers from an in-memory snapshot and forwards each
// mutation to the hosted store through the ordered writeback queue.
type WriteBehindItemStore struct {
	local  *MemoryItemStore
	remote libraryout.ItemStore
	queue  *writeback.Queue
}

func NewWriteBehindItemStore(remote libraryout.ItemStore, queue *writeback.Queue) *WriteBehindItemStore {
	return &WriteBehindItemStore{local: NewMemoryItemStore(), remote: remote, queue: queue}
}

var _ libraryout.ItemStore = (*WriteBehindItemStore)(nil)

// Load reads every item from the hosted store into the snapshot.
func (s *WriteBehindItemStore) Load(ctx context.Context) error {
	items, err := s.remote.List(ctx)
	if err != nil {
		return err
	}
	s.local.Seed(items)
	return nil
}

func (s *WriteBehindItemStore) Save(ctx context.Context, item domain.Item) error {
	if err := s.local.Save(ctx, item); err != nil {
		return err
	}
	snapshot := cloneItem(item)
	return s.queue.Enqueue(writeback.Job{
		Name: "item.save " + item.ID,
		Run: func(ctx context.Context) error {
			return s.remote.Save(ctx, snapshot)
		},
	})
}

func (s *WriteBehindItemStore) FindByID(ctx context.Context, id string) (domain.Item, error) {
	return s.local.FindByID(ctx, id)
}

func (s *WriteBehindItemStore) List(ctx context.Context) ([]domain.Item, error) {
	return s.local.List(ctx)
}

func (s *WriteBehindItemStore) Delete(ctx context.Context, id string) error {
	if err := s.local.Delete(ctx, id); err != nil {
		return err
	}
	return s.queue.Enqueue(writeback.Job{
		Name: "item.delete " + id,
		Run: func(ctx context.Context) error {
			err := s.remote.Delete(ctx, id)
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		},
	})
}
