package usecase

import (
	"context"
	"strings"

	"mindshelf/internal/modules/library/domain"
	"mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
	"mindshelf/internal/modules/library/service"
)

type Interactor struct {
	svc *service.ItemService
}

func NewInteractor(svc *service.ItemService) libraryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) IngestURL(ctx context.Context, input dto.IngestURLInput) (dto.ItemDetailOutput, error) {
	item, err := i.svc.IngestURL(ctx, input.URL)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) IngestDocument(ctx context.Context, input dto.IngestDocumentInput) (dto.ItemDetailOutput, error) {
	item, err := i.svc.IngestDocument(ctx, input.Path)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) Reanalyze(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	item, err := i.svc.Reanalyze(ctx, id)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.ItemDetailOutput, error) {
	status := domain.LifecycleStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	item, err := i.svc.UpdateStatus(ctx, input.ItemID, status, input.Force)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) ApplyHighlight(ctx context.Context, input dto.HighlightInput) (dto.ItemDetailOutput, error) {
	item, err := i.svc.ApplyHighlight(ctx, input.ItemID, input.Passage)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) MarkTestPassed(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	item, err := i.svc.MarkTestPassed(ctx, id)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) MarkMastered(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	item, err := i.svc.MarkMastered(ctx, id)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) MarkReading(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	item, _, err := i.svc.MarkReading(ctx, id)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) ListItems(ctx context.Context) ([]dto.ItemOutput, error) {
	items, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, ToOutput(item))
	}
	return out, nil
}

func (i *Interactor) GetItem(ctx context.Context, id string) (dto.ItemDetailOutput, error) {
	item, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ItemDetailOutput{}, err
	}
	return ToDetailOutput(item), nil
}

func (i *Interactor) ListTags(ctx context.Context) ([]dto.TagOutput, error) {
	tags, err := i.svc.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagOutput, 0, len(tags))
	for _, tag := range tags {
		out = append(out, dto.TagOutput{Tag: tag.Tag, Count: tag.Count})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) ResumeAnalyses(ctx context.Context) (int, error) {
	return i.svc.ResumePending(ctx)
}

func (i *Interactor) WaitForAnalyses() {
	i.svc.Wait()
}

func ToOutput(item domain.Item) dto.ItemOutput {
	return dto.ItemOutput{
		ID:              item.ID,
		Kind:            string(item.Kind),
		SourceKind:      string(item.SourceKind),
		SourceRef:       item.SourceRef,
		Title:           item.Title,
		Tags:            item.Tags,
		AnalysisStatus:  string(item.AnalysisStatus),
		LifecycleStatus: string(item.LifecycleStatus),
		IsTestPassed:    item.IsTestPassed,
		FetchFailed:     item.FetchFailed,
		AddedAt:         item.AddedAt,
	}
}

func ToDetailOutput(item domain.Item) dto.ItemDetailOutput {
	keywords := make([]dto.KeywordOutput, 0, len(item.Keywords))
	for _, k := range item.Keywords {
		keywords = append(keywords, dto.KeywordOutput{Word: k.Word, Count: k.Count, Definition: k.Definition})
	}
	patterns := make([]dto.PatternOutput, 0, len(item.Patterns))
	for _, p := range item.Patterns {
		patterns = append(patterns, dto.PatternOutput{Icon: p.Icon, Title: p.Title, Summary: p.Summary, Action: p.Action})
	}
	return dto.ItemDetailOutput{
		ItemOutput:       ToOutput(item),
		Language:         item.Language,
		RawContent:       item.RawContent,
		Summary:          item.Summary,
		Keywords:         keywords,
		Patterns:         patterns,
		ImprovementGuide: item.ImprovementGuide,
		UpdatedAt:        item.UpdatedAt,
	}
}
