package out

import (
	"context"
	"fmt"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
	"mindshelf/internal/platform/writeback"
)

// WriteBehindBrainStore answers from memory and forwards every save to the
// hosted store through the writeback queue.
type WriteBehindBrainStore struct {
	local  *MemoryBrainStore
	remote brainout.BrainStore
	queue  *writeback.Queue
}

func NewWriteBehindBrainStore(remote brainout.BrainStore, queue *writeback.Queue) *WriteBehindBrainStore {
	return &WriteBehindBrainStore{local: NewMemoryBrainStore(), remote: remote, queue: queue}
}

var _ brainout.BrainStore = (*WriteBehindBrainStore)(nil)

func (s *WriteBehindBrainStore) Load(ctx context.Context) (domain.Brain, error) {
	return s.local.Load(ctx)
}

// Warm reads the hosted Brain into memory.
func (s *WriteBehindBrainStore) Warm(ctx context.Context) error {
	brain, err := s.remote.Load(ctx)
	if err != nil {
		return err
	}
	return s.local.Save(ctx, brain)
}

func (s *WriteBehindBrainStore) Save(ctx context.Context, brain domain.Brain) error {
	if err := s.local.Save(ctx, brain); err != nil {
		return err
	}
	return s.queue.Enqueue(writeback.Job{
		Name: fmt.Sprintf("brain.save rev=%d", brain.Revision),
		Run: func(ctx context.Context) error {
			return s.remote.Save(ctx, brain)
		},
	})
}
