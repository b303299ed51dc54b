package out

import (
	"context"
	"sync"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
)

type MemoryBrainStore struct {
	mu    sync.RWMutex
	brain domain.Brain
}

func NewMemoryBrainStore() *MemoryBrainStore {
	return &MemoryBrainStore{}
}

var _ brainout.BrainStore = (*MemoryBrainStore)(nil)

func (s *MemoryBrainStore) Load(context.Context) (domain.Brain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brain, nil
}

func (s *MemoryBrainStore) Save(_ context.Context, brain domain.Brain) error {
	s.mu.Lock()
	s.brain = brain
	s.mu.Unlock()
	return nil
}
