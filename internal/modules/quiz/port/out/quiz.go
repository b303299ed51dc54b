package out

import (
	"context"

	"mindshelf/internal/modules/quiz/domain"
)

// QuestionGenerator writes multiple-choice questions for content. An empty
// result is valid and means nothing could be generated.
type QuestionGenerator interface {
	Generate(ctx context.Context, content string, count int, language string) ([]domain.Question, error)
}

type SubjectResolver interface {
	Resolve(ctx context.Context, itemID string) (domain.Subject, error)
}

// MasteryRecorder flags the quizzed item once the session is passed.
type MasteryRecorder interface {
	MarkTestPassed(ctx context.Context, itemID string) error
}

type ActivityRecorder interface {
	Record(ctx context.Context) error
}

// SessionStore keeps live sessions. Nothing is checkpointed.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Find(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}
