package in

import (
	"context"

	"mindshelf/internal/modules/reader/dto"
)

type Usecase interface {
	// Open returns the item content and moves a new item to reading.
	Open(ctx context.Context, input dto.OpenInput) (dto.DocumentOutput, error)
	Highlight(ctx context.Context, input dto.HighlightInput) (dto.DocumentOutput, error)
}
