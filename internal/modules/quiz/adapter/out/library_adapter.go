package out

import (
	"context"
	"fmt"
	"strings"

	libraryin "mindshelf/internal/modules/library/port/in"
	"mindshelf/internal/modules/quiz/domain"
	quizout "mindshelf/internal/modules/quiz/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// LibraryAdapter exposes library items as quiz subjects.
type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) *LibraryAdapter {
	return &LibraryAdapter{library: library}
}

var (
	_ quizout.SubjectResolver = (*LibraryAdapter)(nil)
	_ quizout.MasteryRecorder = (*LibraryAdapter)(nil)
)

func (a *LibraryAdapter) Resolve(ctx context.Context, itemID string) (domain.Subject, error) {
	item, err := a.library.GetItem(ctx, itemID)
	if err != nil {
		return domain.Subject{}, err
	}
	if item.FetchFailed || strings.TrimSpace(item.RawContent) == "" {
		return domain.Subject{}, fmt.Errorf("%w: item %s has no content to quiz on", apperrors.ErrInvalidInput, itemID)
	}
	return domain.Subject{
		ID:       item.ID,
		Title:    item.Title,
		Content:  item.RawContent,
		Language: item.Language,
	}, nil
}

func (a *LibraryAdapter) MarkTestPassed(ctx context.Context, itemID string) error {
	_, err := a.library.MarkTestPassed(ctx, itemID)
	return err
}
