package service

import (
	"context"
	"errors"
	"fmt"

	"mindshelf/internal/modules/session/domain"
	sessionout "mindshelf/internal/modules/session/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/logger"
)

type Dependencies struct {
	Clock clock.Clock
	Store sessionout.ActiveSessionStore
	Log   *logger.Logger
}

type SessionService struct {
	clock clock.Clock
	store sessionout.ActiveSessionStore
	log   *logger.Logger
}

func NewSessionService(deps Dependencies) *SessionService {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &SessionService{
		clock: deps.Clock,
		store: deps.Store,
		log:   deps.Log.With("service", "SessionService"),
	}
}

// SignIn starts a persisted session. Signing in again as the same user is a
// no-op; any other active session must be signed out first.
func (s *SessionService) SignIn(ctx context.Context, rawUserID string) (domain.Session, error) {
	userID, err := domain.NormalizeUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, domain.PersistedSession{UserID: userID, StartedAt: s.clock.Now()})
}

func (s *SessionService) SignInGuest(ctx context.Context) (domain.Session, error) {
	return s.start(ctx, domain.LocalOnlySession{StartedAt: s.clock.Now()})
}

func (s *SessionService) start(ctx context.Context, next domain.Session) (domain.Session, error) {
	current, err := s.Current(ctx)
	switch {
	case err == nil:
		if sameIdentity(current, next) {
			return current, nil
		}
		return nil, fmt.Errorf("%w: sign out first", apperrors.ErrActiveSessionExists)
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		return nil, err
	}
	if err := s.store.SaveActive(ctx, domain.ToRecord(next)); err != nil {
		return nil, fmt.Errorf("save active session: %w", err)
	}
	s.log.Info("session started", "kind", next.Kind())
	return next, nil
}

func (s *SessionService) SignOut(ctx context.Context) error {
	if _, err := s.Current(ctx); err != nil {
		return err
	}
	if err := s.store.ClearActive(ctx); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	s.log.Info("session ended")
	return nil
}

func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	record, err := s.store.LoadActive(ctx)
	if err != nil {
		return nil, err
	}
	return record.Session()
}

func sameIdentity(a, b domain.Session) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	pa, okA := a.(domain.PersistedSession)
	pb, okB := b.(domain.PersistedSession)
	return !okA || !okB || pa.UserID == pb.UserID
}
