package in

import (
	"context"

	"mindshelf/internal/modules/brain/dto"
	brainin "mindshelf/internal/modules/brain/port/in"
)

type CLIHandler struct {
	usecase brainin.Usecase
}

func NewCLIHandler(usecase brainin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.BrainOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Edit(ctx context.Context, content string) (dto.BrainOutput, error) {
	return h.usecase.Edit(ctx, dto.EditInput{Content: content})
}

func (h CLIHandler) Merge(ctx context.Context, itemID string) (dto.MergeOutput, error) {
	return h.usecase.Merge(ctx, dto.MergeInput{ItemID: itemID})
}
