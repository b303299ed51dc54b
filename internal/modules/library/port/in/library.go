package in

import (
	"context"

	"mindshelf/internal/modules/library/dto"
)

type Usecase interface {
	IngestURL(ctx context.Context, input dto.IngestURLInput) (dto.ItemDetailOutput, error)
	IngestDocument(ctx context.Context, input dto.IngestDocumentInput) (dto.ItemDetailOutput, error)
	Reanalyze(ctx context.Context, id string) (dto.ItemDetailOutput, error)
	UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.ItemDetailOutput, error)
	ApplyHighlight(ctx context.Context, input dto.HighlightInput) (dto.ItemDetailOutput, error)
	MarkTestPassed(ctx context.Context, id string) (dto.ItemDetailOutput, error)
	MarkMastered(ctx context.Context, id string) (dto.ItemDetailOutput, error)
	// MarkReading moves a new item to reading and records activity once.
	MarkReading(ctx context.Context, id string) (dto.ItemDetailOutput, error)
	Delete(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]dto.ItemOutput, error)
	GetItem(ctx context.Context, id string) (dto.ItemDetailOutput, error)
	ListTags(ctx context.Context) ([]dto.TagOutput, error)
	Reindex(ctx context.Context, input dto.ReindexInput) error
	// ResumeAnalyses requeues items left pending or analyzing by an earlier run.
	ResumeAnalyses(ctx context.Context) (int, error)
	// WaitForAnalyses blocks until background analyses started so far finish.
	WaitForAnalyses()
}
