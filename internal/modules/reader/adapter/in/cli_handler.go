package in

import (
	"context"

	"mindshelf/internal/modules/reader/dto"
	readerin "mindshelf/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Open(ctx context.Context, itemID string, launchExternal bool) (dto.DocumentOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{ItemID: itemID, LaunchExternal: launchExternal})
}

func (h CLIHandler) Highlight(ctx context.Context, itemID, passage string) (dto.DocumentOutput, error) {
	return h.usecase.Highlight(ctx, dto.HighlightInput{ItemID: itemID, Passage: passage})
}
