package usecase

import (
	"context"

	"mindshelf/internal/modules/session/domain"
	"mindshelf/internal/modules/session/dto"
	sessionin "mindshelf/internal/modules/session/port/in"
	"mindshelf/internal/modules/session/service"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SignIn(ctx context.Context, input dto.SignInInput) (dto.SessionOutput, error) {
	s, err := i.svc.SignIn(ctx, input.UserID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return ToOutput(s), nil
}

func (i *Interactor) SignInGuest(ctx context.Context) (dto.SessionOutput, error) {
	s, err := i.svc.SignInGuest(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return ToOutput(s), nil
}

func (i *Interactor) SignOut(ctx context.Context) error {
	return i.svc.SignOut(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.SessionOutput, error) {
	s, err := i.svc.Current(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return ToOutput(s), nil
}

func ToOutput(s domain.Session) dto.SessionOutput {
	return domain.Match(s,
		func(l domain.LocalOnlySession) dto.SessionOutput {
			return dto.SessionOutput{Kind: string(l.Kind()), Guest: true, StartedAt: l.StartedAt}
		},
		func(p domain.PersistedSession) dto.SessionOutput {
			return dto.SessionOutput{Kind: string(p.Kind()), UserID: p.UserID, StartedAt: p.StartedAt}
		},
	)
}
