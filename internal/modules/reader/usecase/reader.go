package usecase

import (
	"context"

	"mindshelf/internal/modules/reader/domain"
	"mindshelf/internal/modules/reader/dto"
	readerin "mindshelf/internal/modules/reader/port/in"
	"mindshelf/internal/modules/reader/service"
)

type Interactor struct {
	svc *service.ReaderService
}

func NewInteractor(svc *service.ReaderService) readerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.DocumentOutput, error) {
	doc, launched, err := i.svc.Open(ctx, input.ItemID, input.LaunchExternal)
	if err != nil {
		return dto.DocumentOutput{}, err
	}
	out := toOutput(doc)
	out.ExternalLaunched = launched
	return out, nil
}

func (i *Interactor) Highlight(ctx context.Context, input dto.HighlightInput) (dto.DocumentOutput, error) {
	doc, err := i.svc.Highlight(ctx, input.ItemID, input.Passage)
	if err != nil {
		return dto.DocumentOutput{}, err
	}
	return toOutput(doc), nil
}

func toOutput(doc domain.Document) dto.DocumentOutput {
	return dto.DocumentOutput{
		ItemID:          doc.ItemID,
		Title:           doc.Title,
		SourceKind:      doc.SourceKind,
		SourceRef:       doc.SourceRef,
		LifecycleStatus: doc.Lifecycle,
		Summary:         doc.Summary,
		Content:         doc.Content,
		ExternalTarget:  doc.ExternalTarget(),
	}
}
