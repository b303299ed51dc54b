package in

import (
	"context"

	"mindshelf/internal/modules/activity/dto"
	activityin "mindshelf/internal/modules/activity/port/in"
)

type CLIHandler struct {
	usecase activityin.Usecase
}

func NewCLIHandler(usecase activityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) PostEntry(ctx context.Context, body string) (dto.JournalEntryOutput, error) {
	return h.usecase.PostEntry(ctx, dto.PostEntryInput{Body: body})
}

func (h CLIHandler) ListEntries(ctx context.Context, limit int) ([]dto.JournalEntryOutput, error) {
	return h.usecase.ListEntries(ctx, limit)
}
