package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "mindshelf/internal/platform/errors"
)

type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateActive     State = "active"
	StateReview     State = "review"
	StatePassed     State = "passed"
)

const (
	OptionsPerQuestion   = 4
	DefaultQuestionCount = 10
)

// Subject is anything a learner can be quizzed on.
type Subject struct {
	ID       string
	Title    string
	Content  string
	Language string
}

type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
	Explanation  string
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question prompt is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("question needs %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// Feedback is the per-question result shown until the learner advances.
type Feedback struct {
	Selected int
	Correct  bool
}

// Session is one pass-until-mastered quiz over a Subject. Queue and Missed
// hold indices into Bank.
type Session struct {
	ID        string
	Subject   Subject
	State     State
	Bank      []Question
	Queue     []int
	Missed    []int
	Cursor    int
	Round     int
	Feedback  *Feedback
	StartedAt time.Time
	PassedAt  time.Time
}

func NewSession(id string, subject Subject, now time.Time) *Session {
	return &Session{ID: id, Subject: subject, State: StateIdle, StartedAt: now}
}

func (s *Session) BeginGeneration() error {
	if s.State != StateIdle {
		return fmt.Errorf("%w: cannot generate from %s", apperrors.ErrInvalidTransition, s.State)
	}
	s.State = StateGenerating
	return nil
}

// Load installs a generated bank. Malformed questions are dropped; a bank
// left empty sends the session back to idle.
func (s *Session) Load(bank []Question) error {
	if s.State != StateGenerating {
		return fmt.Errorf("%w: cannot load questions in %s", apperrors.ErrInvalidTransition, s.State)
	}
	valid := make([]Question, 0, len(bank))
	for _, q := range bank {
		if q.Validate() == nil {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		s.FailGeneration()
		return fmt.Errorf("%w: no usable questions", apperrors.ErrQuizGenerationFailed)
	}
	s.Bank = valid
	s.Queue = make([]int, len(valid))
	for i := range valid {
		s.Queue[i] = i
	}
	s.Missed = nil
	s.Cursor = 0
	s.Round = 1
	s.Feedback = nil
	s.State = StateActive
	return nil
}

func (s *Session) FailGeneration() {
	s.Bank = nil
	s.Queue = nil
	s.Missed = nil
	s.Cursor = 0
	s.Feedback = nil
	s.State = StateIdle
}

// Current returns the bank index and question under the cursor.
func (s *Session) Current() (int, Question, bool) {
	if s.State != StateActive || s.Cursor >= len(s.Queue) {
		return 0, Question{}, false
	}
	idx := s.Queue[s.Cursor]
	return idx, s.Bank[idx], true
}

// Answer grades option for the current question. Only the first answer per
// question counts; later calls and calls on a passed session report false.
func (s *Session) Answer(option int) (bool, error) {
	if s.State == StatePassed {
		return false, nil
	}
	idx, q, ok := s.Current()
	if !ok {
		return false, fmt.Errorf("%w: session is %s", apperrors.ErrQuizNotActive, s.State)
	}
	if s.Feedback != nil {
		return false, nil
	}
	if option < 0 || option >= len(q.Options) {
		return false, fmt.Errorf("%w: option %d out of range", apperrors.ErrInvalidInput, option)
	}
	correct := option == q.CorrectIndex
	s.Feedback = &Feedback{Selected: option, Correct: correct}
	if !correct {
		s.Missed = append(s.Missed, idx)
	}
	return true, nil
}

// Advance moves past the answered question. It reports true only on the
// call that enters passed.
func (s *Session) Advance(now time.Time) (bool, error) {
	if s.State == StatePassed {
		return false, nil
	}
	if s.State != StateActive {
		return false, fmt.Errorf("%w: session is %s", apperrors.ErrQuizNotActive, s.State)
	}
	if s.Feedback == nil {
		return false, fmt.Errorf("%w: answer the current question first", apperrors.ErrInvalidInput)
	}
	s.Feedback = nil
	if s.Cursor+1 < len(s.Queue) {
		s.Cursor++
		return false, nil
	}
	if len(s.Missed) == 0 {
		s.State = StatePassed
		s.PassedAt = now
		return true, nil
	}
	s.State = StateReview
	return false, nil
}

// Retry replays exactly the missed questions in the order they were missed.
func (s *Session) Retry() error {
	if s.State != StateReview {
		return fmt.Errorf("%w: retry needs review, session is %s", apperrors.ErrInvalidTransition, s.State)
	}
	s.Queue = s.Missed
	s.Missed = nil
	s.Cursor = 0
	s.Feedback = nil
	s.Round++
	s.State = StateActive
	return nil
}

// Clone returns a deep copy so callers can stage a transition.
func (s Session) Clone() Session {
	out := s
	out.Bank = append([]Question(nil), s.Bank...)
	for i := range out.Bank {
		out.Bank[i].Options = append([]string(nil), s.Bank[i].Options...)
	}
	out.Queue = append([]int(nil), s.Queue...)
	out.Missed = append([]int(nil), s.Missed...)
	if s.Feedback != nil {
		fb := *s.Feedback
		out.Feedback = &fb
	}
	return out
}

// Excerpt returns at most maxRunes runes of the subject content.
func (s Subject) Excerpt(maxRunes int) string {
	if maxRunes <= 0 {
		return s.Content
	}
	runes := []rune(s.Content)
	if len(runes) <= maxRunes {
		return s.Content
	}
	return string(runes[:maxRunes])
}
