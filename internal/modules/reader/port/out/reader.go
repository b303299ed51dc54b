package out

import (
	"context"

	"mindshelf/internal/modules/reader/domain"
)

type ItemGateway interface {
	Get(ctx context.Context, itemID string) (domain.Document, error)
	MarkReading(ctx context.Context, itemID string) (domain.Document, error)
	Highlight(ctx context.Context, itemID, passage string) (domain.Document, error)
}

type ExternalLauncher interface {
	Open(ctx context.Context, target string) error
}
