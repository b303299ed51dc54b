package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "mindshelf/internal/platform/errors"
)

// Separator joins merged proposals onto the existing Brain text.
const Separator = "\n\n"

const SchemaVersion = 1

// Brain is the user's single knowledge-base document.
type Brain struct {
	Content   string
	Revision  int
	UpdatedAt time.Time
}

// Source is a quiz-passed item offered for merging.
type Source struct {
	ID           string
	Title        string
	Summary      string
	Content      string
	Language     string
	IsTestPassed bool
}

func (s Source) CheckEligible() error {
	if !s.IsTestPassed {
		return fmt.Errorf("%w: item %s has not passed its quiz", apperrors.ErrMergeNotEligible, s.ID)
	}
	return nil
}

// Append returns the Brain with proposal added after a blank line. The
// existing text is kept byte for byte; an empty Brain becomes the proposal.
func (b Brain) Append(proposal string, now time.Time) (Brain, error) {
	if strings.TrimSpace(proposal) == "" {
		return Brain{}, fmt.Errorf("%w: empty proposal", apperrors.ErrMergeFailed)
	}
	content := proposal
	if b.Content != "" {
		content = b.Content + Separator + proposal
	}
	return Brain{Content: content, Revision: b.Revision + 1, UpdatedAt: now}, nil
}

// Replace overwrites the whole document.
func (b Brain) Replace(content string, now time.Time) Brain {
	return Brain{Content: content, Revision: b.Revision + 1, UpdatedAt: now}
}
