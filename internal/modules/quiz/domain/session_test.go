package domain_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"mindshelf/internal/modules/quiz/domain"
	apperrors "mindshelf/internal/platform/errors"
)

func bank(n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{
			Prompt:       "q",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
		}
	}
	return out
}

func activeSession(t *testing.T, n int) *domain.Session {
	t.Helper()
	s := domain.NewSession("s1", domain.Subject{ID: "item-1", Title: "Pipelines"}, time.Now())
	if err := s.BeginGeneration(); err != nil {
		t.Fatalf("begin generation: %v", err)
	}
	if err := s.Load(bank(n)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

// answerPass answers the current queue, missing the bank indices in miss.
func answerPass(t *testing.T, s *domain.Session, miss map[int]bool) (passed bool) {
	t.Helper()
	for s.State == domain.StateActive {
		idx, q, ok := s.Current()
		if !ok {
			t.Fatalf("no current question in active session")
		}
		option := q.CorrectIndex
		if miss[idx] {
			option = (q.CorrectIndex + 1) % 4
		}
		if _, err := s.Answer(option); err != nil {
			t.Fatalf("answer %d: %v", idx, err)
		}
		entered, err := s.Advance(time.Now())
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		passed = passed || entered
	}
	return passed
}

func TestAllCorrectGoesStraightToPassed(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 10)
	if !reflect.DeepEqual(s.Queue, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("first pass must ask every question in order, got %v", s.Queue)
	}
	if !answerPass(t, s, nil) {
		t.Fatalf("expected the pass to report entering passed")
	}
	if s.State != domain.StatePassed || s.Round != 1 {
		t.Fatalf("expected passed in round 1, got %s round %d", s.State, s.Round)
	}
}

func TestRetryReplaysExactlyTheMissedQuestions(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 10)
	if answerPass(t, s, map[int]bool{5: true, 2: true}) {
		t.Fatalf("must not pass with misses")
	}
	if s.State != domain.StateReview || !reflect.DeepEqual(s.Missed, []int{2, 5}) {
		t.Fatalf("expected review with [2 5], got %s %v", s.State, s.Missed)
	}
	if err := s.Retry(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !reflect.DeepEqual(s.Queue, []int{2, 5}) || len(s.Missed) != 0 || s.Cursor != 0 {
		t.Fatalf("unexpected retry state queue=%v missed=%v cursor=%d", s.Queue, s.Missed, s.Cursor)
	}

	answerPass(t, s, map[int]bool{5: true})
	if s.State != domain.StateReview || !reflect.DeepEqual(s.Missed, []int{5}) {
		t.Fatalf("expected review with [5], got %s %v", s.State, s.Missed)
	}
	if err := s.Retry(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !answerPass(t, s, nil) || s.State != domain.StatePassed || s.Round != 3 {
		t.Fatalf("expected pass in round 3, got %s round %d", s.State, s.Round)
	}
}

func TestAnswerIsAcceptedOncePerQuestion(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 2)
	_, q, _ := s.Current()
	accepted, err := s.Answer((q.CorrectIndex + 1) % 4)
	if err != nil || !accepted {
		t.Fatalf("first answer: %v %v", accepted, err)
	}
	accepted, err = s.Answer(q.CorrectIndex)
	if err != nil || accepted {
		t.Fatalf("second answer must be ignored: %v %v", accepted, err)
	}
	if s.Feedback.Correct || !reflect.DeepEqual(s.Missed, []int{0}) {
		t.Fatalf("first answer must stick: %+v missed=%v", s.Feedback, s.Missed)
	}
}

func TestPassedIsTerminal(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 1)
	answerPass(t, s, nil)
	entered, err := s.Advance(time.Now())
	if err != nil || entered {
		t.Fatalf("advance after passed must be a no-op: %v %v", entered, err)
	}
	accepted, err := s.Answer(0)
	if err != nil || accepted {
		t.Fatalf("answer after passed must be a no-op: %v %v", accepted, err)
	}
	if err := s.Retry(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("retry after passed: %v", err)
	}
}

func TestEmptyBankReturnsToIdle(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s1", domain.Subject{ID: "item-1"}, time.Now())
	_ = s.BeginGeneration()
	err := s.Load(nil)
	if !errors.Is(err, apperrors.ErrQuizGenerationFailed) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	if s.State != domain.StateIdle || len(s.Bank) != 0 {
		t.Fatalf("expected idle with empty bank, got %s %d", s.State, len(s.Bank))
	}

	_ = s.BeginGeneration()
	malformed := []domain.Question{{Prompt: "two options", Options: []string{"a", "b"}}}
	if err := s.Load(malformed); !errors.Is(err, apperrors.ErrQuizGenerationFailed) {
		t.Fatalf("malformed-only bank must fail, got %v", err)
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 3)
	if _, err := s.Advance(time.Now()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := s.Answer(7); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected out-of-range option error, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	s := activeSession(t, 2)
	_, _ = s.Answer(3)
	c := s.Clone()
	c.Missed[0] = 99
	c.Feedback.Selected = 2
	c.Bank[0].Options[0] = "changed"
	if s.Missed[0] != 0 || s.Feedback.Selected != 3 || s.Bank[0].Options[0] != "a" {
		t.Fatalf("clone shares state with original")
	}
}
