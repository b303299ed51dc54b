package out

import (
	"context"

	"mindshelf/internal/modules/session/domain"
)

// ActiveSessionStore returns apperrors.ErrNoActiveSession from LoadActive
// when nobody is signed in.
type ActiveSessionStore interface {
	SaveActive(ctx context.Context, record domain.Record) error
	LoadActive(ctx context.Context) (domain.Record, error)
	ClearActive(ctx context.Context) error
}
