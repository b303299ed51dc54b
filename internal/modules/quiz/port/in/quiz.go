package in

import (
	"context"

	"mindshelf/internal/modules/quiz/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	Answer(ctx context.Context, input dto.AnswerInput) (dto.SessionOutput, error)
	Advance(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	Retry(ctx context.Context, sessionID string) (dto.SessionOutput, error)
	Discard(ctx context.Context, sessionID string) error
}
