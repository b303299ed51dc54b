package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mindshelf/internal/modules/quiz/domain"
	quizout "mindshelf/internal/modules/quiz/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/id"
	"mindshelf/internal/platform/logger"
)

type Dependencies struct {
	Clock     clock.Clock
	IDGen     id.Generator
	Sessions  quizout.SessionStore
	Subjects  quizout.SubjectResolver
	Generator quizout.QuestionGenerator
	Mastery   quizout.MasteryRecorder
	Activity  quizout.ActivityRecorder
	Log       *logger.Logger
	// QuestionCount is how many questions a session asks for.
	QuestionCount int
	MaxChars      int
}

type QuizService struct {
	clock     clock.Clock
	idGen     id.Generator
	sessions  quizout.SessionStore
	subjects  quizout.SubjectResolver
	generator quizout.QuestionGenerator
	mastery   quizout.MasteryRecorder
	activity  quizout.ActivityRecorder
	log       *logger.Logger
	count     int
	maxChars  int

	mu sync.Mutex
}

func NewQuizService(deps Dependencies) *QuizService {
	if deps.QuestionCount <= 0 {
		deps.QuestionCount = domain.DefaultQuestionCount
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &QuizService{
		clock:     deps.Clock,
		idGen:     deps.IDGen,
		sessions:  deps.Sessions,
		subjects:  deps.Subjects,
		generator: deps.Generator,
		mastery:   deps.Mastery,
		activity:  deps.Activity,
		log:       deps.Log.With("service", "QuizService"),
		count:     deps.QuestionCount,
		maxChars:  deps.MaxChars,
	}
}

// Start generates a question bank for the item. When generation fails or
// yields nothing the session is dropped and ErrQuizGenerationFailed returned.
func (s *QuizService) Start(ctx context.Context, itemID string) (domain.Session, error) {
	if strings.TrimSpace(itemID) == "" {
		return domain.Session{}, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	subject, err := s.subjects.Resolve(ctx, itemID)
	if err != nil {
		return domain.Session{}, err
	}
	session := domain.NewSession(s.idGen.New(), subject, s.clock.Now())
	if err := session.BeginGeneration(); err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(ctx, *session); err != nil {
		return domain.Session{}, fmt.Errorf("save quiz session: %w", err)
	}

	log := s.log.With("session_id", session.ID, "item_id", itemID)
	questions, genErr := s.generator.Generate(ctx, subject.Excerpt(s.maxChars), s.count, subject.Language)
	if genErr != nil {
		session.FailGeneration()
		genErr = fmt.Errorf("%w: %v", apperrors.ErrQuizGenerationFailed, genErr)
	} else {
		genErr = session.Load(questions)
	}
	if genErr != nil {
		log.Warn("quiz generation failed", "error", genErr)
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			log.Error("drop failed quiz session", "error", err)
		}
		return domain.Session{}, genErr
	}
	if err := s.sessions.Save(ctx, *session); err != nil {
		return domain.Session{}, fmt.Errorf("save quiz session: %w", err)
	}
	log.Info("quiz started", "questions", len(session.Bank))
	return *session, nil
}

func (s *QuizService) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.sessions.Find(ctx, sessionID)
}

func (s *QuizService) Answer(ctx context.Context, sessionID string, option int) (domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		_, err := session.Answer(option)
		return err
	})
}

// Advance moves to the next question. Entering passed marks the item and
// records activity; if marking fails the session stays where it was.
func (s *QuizService) Advance(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		entered, err := session.Advance(s.clock.Now())
		if err != nil || !entered {
			return err
		}
		if err := s.mastery.MarkTestPassed(ctx, session.Subject.ID); err != nil {
			return fmt.Errorf("mark test passed: %w", err)
		}
		if s.activity != nil {
			if err := s.activity.Record(ctx); err != nil {
				s.log.Warn("record activity failed", "error", err)
			}
		}
		s.log.Info("quiz passed", "session_id", session.ID, "item_id", session.Subject.ID, "rounds", session.Round)
		return nil
	})
}

func (s *QuizService) Retry(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		return session.Retry()
	})
}

// Discard throws the session away with all of its progress.
func (s *QuizService) Discard(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(ctx, sessionID)
}

// update applies fn to a copy of the stored session and saves it only when
// fn succeeds.
func (s *QuizService) update(ctx context.Context, sessionID string, fn func(session *domain.Session) error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	staged := stored.Clone()
	if err := fn(&staged); err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(ctx, staged); err != nil {
		return domain.Session{}, fmt.Errorf("save quiz session: %w", err)
	}
	return staged, nil
}
