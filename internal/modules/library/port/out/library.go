package out

import (
	"context"

	"mindshelf/internal/modules/library/domain"
)

// ItemStore is the primary record of a user's items.
type ItemStore interface {
	Save(ctx context.Context, item domain.Item) error
	FindByID(ctx context.Context, id string) (domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// ItemIndexProjector maintains the queryable item/tag projection.
type ItemIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, id string) error
	TagCounts(ctx context.Context) ([]domain.TagCount, error)
}

// ContentSource fetches readable text for a URL.
type ContentSource interface {
	Fetch(ctx context.Context, url string) (domain.FetchedContent, error)
}

// DocumentReader extracts text from a local file.
type DocumentReader interface {
	Read(ctx context.Context, path string) (domain.FetchedContent, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, content, language string) (domain.Analysis, error)
}

// ActivityRecorder bumps today's activity ledger.
type ActivityRecorder interface {
	Record(ctx context.Context) error
}

type ChangeNotifier interface {
	ItemChanged(ctx context.Context, item domain.Item)
	ItemDeleted(ctx context.Context, id string)
}
