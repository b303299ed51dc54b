package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/logger"
)

type Dependencies struct {
	Clock     clock.Clock
	Store     brainout.BrainStore
	Sources   brainout.SourceGateway
	Proposals brainout.ProposalGenerator
	Activity  brainout.ActivityRecorder
	Notifier  brainout.ChangeNotifier
	Log       *logger.Logger
}

type BrainService struct {
	clock     clock.Clock
	store     brainout.BrainStore
	sources   brainout.SourceGateway
	proposals brainout.ProposalGenerator
	activity  brainout.ActivityRecorder
	notifier  brainout.ChangeNotifier
	log       *logger.Logger

	// mu keeps load-modify-save of the single document serial.
	mu sync.Mutex
}

func NewBrainService(deps Dependencies) *BrainService {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &BrainService{
		clock:     deps.Clock,
		store:     deps.Store,
		sources:   deps.Sources,
		proposals: deps.Proposals,
		activity:  deps.Activity,
		notifier:  deps.Notifier,
		log:       deps.Log.With("service", "BrainService"),
	}
}

func (s *BrainService) Get(ctx context.Context) (domain.Brain, error) {
	return s.store.Load(ctx)
}

// Edit replaces the whole Brain.
func (s *BrainService) Edit(ctx context.Context, content string) (domain.Brain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.store.Load(ctx)
	if err != nil {
		return domain.Brain{}, err
	}
	next := current.Replace(content, s.clock.Now())
	if err := s.save(ctx, next); err != nil {
		return domain.Brain{}, err
	}
	return next, nil
}

// Merge appends a generated proposal for a quiz-passed item. A failed
// proposal leaves the Brain untouched.
func (s *BrainService) Merge(ctx context.Context, itemID string) (domain.Brain, string, error) {
	if strings.TrimSpace(itemID) == "" {
		return domain.Brain{}, "", fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	source, err := s.sources.Resolve(ctx, itemID)
	if err != nil {
		return domain.Brain{}, "", err
	}
	if err := source.CheckEligible(); err != nil {
		return domain.Brain{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.store.Load(ctx)
	if err != nil {
		return domain.Brain{}, "", err
	}
	proposal, err := s.proposals.Propose(ctx, source, current.Content)
	if err != nil {
		s.log.Warn("merge proposal failed", "item_id", itemID, "error", err)
		return domain.Brain{}, "", fmt.Errorf("%w: %v", apperrors.ErrMergeFailed, err)
	}
	next, err := current.Append(proposal, s.clock.Now())
	if err != nil {
		return domain.Brain{}, "", err
	}
	if err := s.save(ctx, next); err != nil {
		return domain.Brain{}, "", fmt.Errorf("%w: %v", apperrors.ErrMergeFailed, err)
	}
	if err := s.sources.MarkMastered(ctx, itemID); err != nil {
		s.log.Error("mark mastered after merge failed", "item_id", itemID, "error", err)
	}
	s.log.Info("merged into brain", "item_id", itemID, "revision", next.Revision)
	return next, proposal, nil
}

// save persists the Brain and pairs it with one ledger increment.
func (s *BrainService) save(ctx context.Context, brain domain.Brain) error {
	if err := s.store.Save(ctx, brain); err != nil {
		return fmt.Errorf("save brain: %w", err)
	}
	if s.activity != nil {
		if err := s.activity.Record(ctx); err != nil {
			s.log.Warn("record activity failed", "error", err)
		}
	}
	if s.notifier != nil {
		s.notifier.BrainChanged(ctx, brain)
	}
	return nil
}
