package in

import (
	"context"

	"mindshelf/internal/modules/session/dto"
	sessionin "mindshelf/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, userID string) (dto.SessionOutput, error) {
	return h.usecase.SignIn(ctx, dto.SignInInput{UserID: userID})
}

func (h CLIHandler) Guest(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.SignInGuest(ctx)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.SignOut(ctx)
}

func (h CLIHandler) WhoAmI(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}
