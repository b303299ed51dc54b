package in

import (
	"context"

	"mindshelf/internal/modules/reader/dto"
	readerin "mindshelf/internal/modules/reader/port/in"
)

// TUIHandler never launches a browser; the terminal renders the content.
type TUIHandler struct {
	usecase readerin.Usecase
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, itemID string) (dto.DocumentOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{ItemID: itemID})
}

func (h TUIHandler) Highlight(ctx context.Context, itemID, passage string) (dto.DocumentOutput, error) {
	return h.usecase.Highlight(ctx, dto.HighlightInput{ItemID: itemID, Passage: passage})
}
