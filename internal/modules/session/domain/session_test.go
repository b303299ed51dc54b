package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "mindshelf/internal/platform/errors"
)

func TestNormalizeUserID(t *testing.T) {
	t.Parallel()
	for _, ok := range []string{"alice", " bob@example.com ", "u_1.2-3"} {
		if _, err := NormalizeUserID(ok); err != nil {
			t.Fatalf("%q should be accepted: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", "../etc", "a/b", ".hidden", "a..b"} {
		if _, err := NormalizeUserID(bad); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%q should be rejected, got %v", bad, err)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, s := range []Session{LocalOnlySession{StartedAt: now}, PersistedSession{UserID: "alice", StartedAt: now}} {
		got, err := ToRecord(s).Session()
		if err != nil {
			t.Fatalf("decode %T: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip changed session: %#v != %#v", got, s)
		}
	}
	if _, err := (Record{Kind: "admin"}).Session(); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestMatchBranchesOnCapability(t *testing.T) {
	t.Parallel()
	describe := func(s Session) string {
		return Match(s,
			func(LocalOnlySession) string { return "memory" },
			func(p PersistedSession) string { return "vault:" + p.UserID },
		)
	}
	if got := describe(LocalOnlySession{}); got != "memory" {
		t.Fatalf("unexpected %q", got)
	}
	if got := describe(PersistedSession{UserID: "alice"}); got != "vault:alice" {
		t.Fatalf("unexpected %q", got)
	}
}
