package in

import (
	"context"

	"mindshelf/internal/modules/quiz/dto"
	quizin "mindshelf/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, itemID string) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{ItemID: itemID})
}

func (h CLIHandler) Answer(ctx context.Context, sessionID string, option int) (dto.SessionOutput, error) {
	return h.usecase.Answer(ctx, dto.AnswerInput{SessionID: sessionID, Option: option})
}

func (h CLIHandler) Advance(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Advance(ctx, sessionID)
}

func (h CLIHandler) Retry(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Retry(ctx, sessionID)
}

func (h CLIHandler) Discard(ctx context.Context, sessionID string) error {
	return h.usecase.Discard(ctx, sessionID)
}
