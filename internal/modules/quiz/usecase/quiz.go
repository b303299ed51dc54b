package usecase

import (
	"context"

	"mindshelf/internal/modules/quiz/domain"
	"mindshelf/internal/modules/quiz/dto"
	quizin "mindshelf/internal/modules/quiz/port/in"
	"mindshelf/internal/modules/quiz/service"
)

type Interactor struct {
	svc *service.QuizService
}

func NewInteractor(svc *service.QuizService) quizin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	return output(i.svc.Start(ctx, input.ItemID))
}

func (i *Interactor) Get(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return output(i.svc.Get(ctx, sessionID))
}

func (i *Interactor) Answer(ctx context.Context, input dto.AnswerInput) (dto.SessionOutput, error) {
	return output(i.svc.Answer(ctx, input.SessionID, input.Option))
}

func (i *Interactor) Advance(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return output(i.svc.Advance(ctx, sessionID))
}

func (i *Interactor) Retry(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	return output(i.svc.Retry(ctx, sessionID))
}

func (i *Interactor) Discard(ctx context.Context, sessionID string) error {
	return i.svc.Discard(ctx, sessionID)
}

func output(session domain.Session, err error) (dto.SessionOutput, error) {
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return ToOutput(session), nil
}

// ToOutput hides the correct answer until the current question is answered.
func ToOutput(session domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		ID:        session.ID,
		ItemID:    session.Subject.ID,
		ItemTitle: session.Subject.Title,
		State:     string(session.State),
		Round:     session.Round,
		Total:     len(session.Queue),
		Missed:    append([]int{}, session.Missed...),
	}
	idx, q, ok := session.Current()
	if !ok {
		return out
	}
	out.Position = session.Cursor + 1
	out.Remaining = len(session.Queue) - session.Cursor - 1
	out.Question = &dto.QuestionOutput{Index: idx, Prompt: q.Prompt, Options: append([]string{}, q.Options...)}
	if session.Feedback != nil {
		out.Feedback = &dto.FeedbackOutput{
			Selected:     session.Feedback.Selected,
			Correct:      session.Feedback.Correct,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}
	return out
}
