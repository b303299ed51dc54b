package in

import (
	"context"

	"mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// IngestURL stores the article and, when wait is set, blocks until its
// background analysis finished so a short-lived CLI run keeps the result.
func (h CLIHandler) IngestURL(ctx context.Context, url string, wait bool) (dto.ItemDetailOutput, error) {
	out, err := h.usecase.IngestURL(ctx, dto.IngestURLInput{URL: url})
	if err != nil || !wait {
		return out, err
	}
	h.usecase.WaitForAnalyses()
	return h.usecase.GetItem(ctx, out.ID)
}

func (h CLIHandler) IngestDocument(ctx context.Context, path string, wait bool) (dto.ItemDetailOutput, error) {
	out, err := h.usecase.IngestDocument(ctx, dto.IngestDocumentInput{Path: path})
	if err != nil || !wait {
		return out, err
	}
	h.usecase.WaitForAnalyses()
	return h.usecase.GetItem(ctx, out.ID)
}

func (h CLIHandler) Reanalyze(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	if _, err := h.usecase.Reanalyze(ctx, id); err != nil {
		return dto.ItemDetailOutput{}, err
	}
	h.usecase.WaitForAnalyses()
	return h.usecase.GetItem(ctx, id)
}

func (h CLIHandler) UpdateStatus(ctx context.Context, id, status string, force bool) (dto.ItemDetailOutput, error) {
	return h.usecase.UpdateStatus(ctx, dto.UpdateStatusInput{ItemID: id, Status: status, Force: force})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) ListItems(ctx context.Context) ([]dto.ItemOutput, error) {
	return h.usecase.ListItems(ctx)
}

func (h CLIHandler) GetItem(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	return h.usecase.GetItem(ctx, id)
}

func (h CLIHandler) ListTags(ctx context.Context) ([]dto.TagOutput, error) {
	return h.usecase.ListTags(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}
