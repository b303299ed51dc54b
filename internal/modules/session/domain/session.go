package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "mindshelf/internal/platform/errors"
)

const SchemaVersion = 1

type Kind string

const (
	KindLocalOnly Kind = "local_only"
	KindPersisted Kind = "persisted"
)

// Session is either LocalOnlySession or PersistedSession; no other
// implementations exist outside this package.
type Session interface {
	Kind() Kind
	Started() time.Time
	session()
}

// LocalOnlySession keeps all data in process memory.
type LocalOnlySession struct {
	StartedAt time.Time
}

func (LocalOnlySession) Kind() Kind           { return KindLocalOnly }
func (s LocalOnlySession) Started() time.Time { return s.StartedAt }
func (LocalOnlySession) session()             {}

// PersistedSession owns durable data keyed by UserID.
type PersistedSession struct {
	UserID    string
	StartedAt time.Time
}

func (PersistedSession) Kind() Kind           { return KindPersisted }
func (s PersistedSession) Started() time.Time { return s.StartedAt }
func (PersistedSession) session()             {}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]{0,63}$`)

// NormalizeUserID trims and validates a user id. Ids end up in file paths
// and database keys, so only a conservative alphabet is accepted.
func NormalizeUserID(raw string) (string, error) {
	userID := strings.TrimSpace(raw)
	if !userIDPattern.MatchString(userID) || strings.Contains(userID, "..") {
		return "", fmt.Errorf("%w: invalid user id %q", apperrors.ErrInvalidInput, raw)
	}
	return userID, nil
}

// Match is the single place a caller branches on the session capability.
func Match[T any](s Session, local func(LocalOnlySession) T, persisted func(PersistedSession) T) T {
	switch v := s.(type) {
	case PersistedSession:
		return persisted(v)
	case LocalOnlySession:
		return local(v)
	default:
		panic(fmt.Sprintf("unknown session type %T", s))
	}
}

// Record is the serialized form of the active session.
type Record struct {
	SchemaVersion int       `json:"schema_version"`
	Kind          Kind      `json:"kind"`
	UserID        string    `json:"user_id,omitempty"`
	StartedAt     time.Time `json:"started_at"`
}

func ToRecord(s Session) Record {
	rec := Record{SchemaVersion: SchemaVersion, Kind: s.Kind(), StartedAt: s.Started()}
	if p, ok := s.(PersistedSession); ok {
		rec.UserID = p.UserID
	}
	return rec
}

func (r Record) Session() (Session, error) {
	switch r.Kind {
	case KindLocalOnly:
		return LocalOnlySession{StartedAt: r.StartedAt}, nil
	case KindPersisted:
		userID, err := NormalizeUserID(r.UserID)
		if err != nil {
			return nil, err
		}
		return PersistedSession{UserID: userID, StartedAt: r.StartedAt}, nil
	default:
		return nil, fmt.Errorf("%w: unknown session kind %q", apperrors.ErrInvalidInput, r.Kind)
	}
}
