package out

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindshelf/internal/modules/quiz/domain"
	quizout "mindshelf/internal/modules/quiz/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
)

// DefaultSessionIdle is how long an untouched session is kept.
const DefaultSessionIdle = 2 * time.Hour

type storedSession struct {
	session  domain.Session
	lastSeen time.Time
}

// MemorySessionStore holds live quiz sessions in process memory. Sessions
// not saved or read for longer than the idle window are dropped.
type MemorySessionStore struct {
	clock    clock.Clock
	idle     time.Duration
	mu       sync.Mutex
	sessions map[string]storedSession
}

func NewMemorySessionStore(clk clock.Clock, idle time.Duration) *MemorySessionStore {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &MemorySessionStore{clock: clk, idle: idle, sessions: map[string]storedSession{}}
}

var _ quizout.SessionStore = (*MemorySessionStore)(nil)

func (s *MemorySessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.pruneLocked(now)
	s.sessions[session.ID] = storedSession{session: session.Clone(), lastSeen: now}
	return nil
}

func (s *MemorySessionStore) Find(_ context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.pruneLocked(now)
	stored, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: quiz session %s", apperrors.ErrNotFound, id)
	}
	stored.lastSeen = now
	s.sessions[id] = stored
	return stored.session.Clone(), nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are currently held.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) pruneLocked(now time.Time) {
	for id, stored := range s.sessions {
		if now.Sub(stored.lastSeen) > s.idle {
			delete(s.sessions, id)
		}
	}
}
