package in

import (
	"context"

	"mindshelf/internal/modules/brain/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.BrainOutput, error)
	Edit(ctx context.Context, input dto.EditInput) (dto.BrainOutput, error)
	Merge(ctx context.Context, input dto.MergeInput) (dto.MergeOutput, error)
}
