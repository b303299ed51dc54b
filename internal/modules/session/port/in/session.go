package in

import (
	"context"

	"mindshelf/internal/modules/session/dto"
)

type Usecase interface {
	SignIn(ctx context.Context, input dto.SignInInput) (dto.SessionOutput, error)
	SignInGuest(ctx context.Context) (dto.SessionOutput, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (dto.SessionOutput, error)
}
