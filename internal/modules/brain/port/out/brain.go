package out

import (
	"context"

	"mindshelf/internal/modules/brain/domain"
)

// BrainStore holds the single Brain document. Load on an empty store returns
// a zero Brain, not an error.
type BrainStore interface {
	Load(ctx context.Context) (domain.Brain, error)
	Save(ctx context.Context, brain domain.Brain) error
}

// ProposalGenerator drafts the text to merge for a source given the current
// Brain.
type ProposalGenerator interface {
	Propose(ctx context.Context, source domain.Source, brain string) (string, error)
}

type SourceGateway interface {
	Resolve(ctx context.Context, itemID string) (domain.Source, error)
	MarkMastered(ctx context.Context, itemID string) error
}

type ActivityRecorder interface {
	Record(ctx context.Context) error
}

type ChangeNotifier interface {
	BrainChanged(ctx context.Context, brain domain.Brain)
}
