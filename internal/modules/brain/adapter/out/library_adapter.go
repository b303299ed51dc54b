package out

import (
	"context"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
	libraryin "mindshelf/internal/modules/library/port/in"
)

type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) *LibraryAdapter {
	return &LibraryAdapter{library: library}
}

var _ brainout.SourceGateway = (*LibraryAdapter)(nil)

func (a *LibraryAdapter) Resolve(ctx context.Context, itemID string) (domain.Source, error) {
	item, err := a.library.GetItem(ctx, itemID)
	if err != nil {
		return domain.Source{}, err
	}
	return domain.Source{
		ID:           item.ID,
		Title:        item.Title,
		Summary:      item.Summary,
		Content:      item.RawContent,
		Language:     item.Language,
		IsTestPassed: item.IsTestPassed,
	}, nil
}

func (a *LibraryAdapter) MarkMastered(ctx context.Context, itemID string) error {
	_, err := a.library.MarkMastered(ctx, itemID)
	return err
}
