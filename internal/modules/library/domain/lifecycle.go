package domain

import (
	"fmt"

	apperrors "mindshelf/internal/platform/errors"
)

type LifecycleStatus string

const (
	LifecycleNew      LifecycleStatus = "new"
	LifecycleReading  LifecycleStatus = "reading"
	LifecyclePractice LifecycleStatus = "practice"
	LifecycleMastered LifecycleStatus = "mastered"
)

var lifecycleRank = map[LifecycleStatus]int{
	LifecycleNew:      0,
	LifecycleReading:  1,
	LifecyclePractice: 2,
	LifecycleMastered: 3,
}

func (s LifecycleStatus) Validate() error {
	if _, ok := lifecycleRank[s]; !ok {
		return fmt.Errorf("unsupported lifecycle status %q", string(s))
	}
	return nil
}

// Before reports whether s comes earlier than other in new < reading <
// practice < mastered.
func (s LifecycleStatus) Before(other LifecycleStatus) bool {
	return lifecycleRank[s] < lifecycleRank[other]
}

// AdvanceLifecycle sets the lifecycle status. Setting the current status is a
// no-op and reports false; moving backward needs force.
func (i *Item) AdvanceLifecycle(to LifecycleStatus, force bool) (bool, error) {
	if err := to.Validate(); err != nil {
		return false, err
	}
	if to == i.LifecycleStatus {
		return false, nil
	}
	if to.Before(i.LifecycleStatus) && !force {
		return false, fmt.Errorf("%w: %s -> %s needs force", apperrors.ErrInvalidTransition, i.LifecycleStatus, to)
	}
	i.LifecycleStatus = to
	return true, nil
}

// EnsureAtLeast advances to min when the item is behind it and never moves
// backward.
func (i *Item) EnsureAtLeast(min LifecycleStatus) bool {
	if !i.LifecycleStatus.Before(min) {
		return false
	}
	i.LifecycleStatus = min
	return true
}
