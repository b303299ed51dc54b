package in

import (
	"context"

	"mindshelf/internal/modules/activity/dto"
)

type Usecase interface {
	Record(ctx context.Context) (dto.RecordOutput, error)
	RecordOn(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	PostEntry(ctx context.Context, input dto.PostEntryInput) (dto.JournalEntryOutput, error)
	ListEntries(ctx context.Context, limit int) ([]dto.JournalEntryOutput, error)
}
