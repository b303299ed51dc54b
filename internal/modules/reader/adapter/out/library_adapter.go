package out

import (
	"context"

	librarydto "mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
	"mindshelf/internal/modules/reader/domain"
	readerout "mindshelf/internal/modules/reader/port/out"
)

type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) *LibraryAdapter {
	return &LibraryAdapter{library: library}
}

var _ readerout.ItemGateway = (*LibraryAdapter)(nil)

func (a *LibraryAdapter) Get(ctx context.Context, itemID string) (domain.Document, error) {
	item, err := a.library.GetItem(ctx, itemID)
	if err != nil {
		return domain.Document{}, err
	}
	return toDocument(item), nil
}

func (a *LibraryAdapter) MarkReading(ctx context.Context, itemID string) (domain.Document, error) {
	item, err := a.library.MarkReading(ctx, itemID)
	if err != nil {
		return domain.Document{}, err
	}
	return toDocument(item), nil
}

func (a *LibraryAdapter) Highlight(ctx context.Context, itemID, passage string) (domain.Document, error) {
	item, err := a.library.ApplyHighlight(ctx, librarydto.HighlightInput{ItemID: itemID, Passage: passage})
	if err != nil {
		return domain.Document{}, err
	}
	return toDocument(item), nil
}

func toDocument(item librarydto.ItemDetailOutput) domain.Document {
	return domain.Document{
		ItemID:     item.ID,
		Title:      item.Title,
		SourceKind: item.SourceKind,
		SourceRef:  item.SourceRef,
		Lifecycle:  item.LifecycleStatus,
		Summary:    item.Summary,
		Content:    item.RawContent,
	}
}
