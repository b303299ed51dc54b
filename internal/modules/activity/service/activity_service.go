package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindshelf/internal/modules/activity/domain"
	activityout "mindshelf/internal/modules/activity/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/id"
)

const defaultJournalLimit = 50

type ActivityService struct {
	clock    clock.Clock
	idGen    id.Generator
	loc      *time.Location
	ledger   activityout.LedgerStore
	journal  activityout.JournalStore
	notifier activityout.ChangeNotifier
}

func NewActivityService(clock clock.Clock, idGen id.Generator, loc *time.Location, ledger activityout.LedgerStore, journal activityout.JournalStore, notifier activityout.ChangeNotifier) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &ActivityService{clock: clock, idGen: idGen, loc: loc, ledger: ledger, journal: journal, notifier: notifier}
}

// Record increments today's bucket in the user's time zone.
func (s *ActivityService) Record(ctx context.Context) (string, int, error) {
	return s.RecordOn(ctx, s.clock.Now())
}

// RecordOn increments the bucket of the calendar day that at falls on in the
// user's time zone.
func (s *ActivityService) RecordOn(ctx context.Context, at time.Time) (string, int, error) {
	if at.IsZero() {
		return "", 0, fmt.Errorf("%w: activity day is required", apperrors.ErrInvalidInput)
	}
	day := clock.Day(at, s.loc)
	count, err := s.ledger.Increment(ctx, day)
	if err != nil {
		return "", 0, fmt.Errorf("increment ledger: %w", err)
	}
	if s.notifier != nil {
		s.notifier.ActivityRecorded(ctx, day, count)
	}
	return day, count, nil
}

// ParseDay reads a YYYY-MM-DD day in the user's time zone.
func (s *ActivityService) ParseDay(day string) (time.Time, error) {
	at, err := time.ParseInLocation(clock.DayLayout, strings.TrimSpace(day), s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day must be YYYY-MM-DD, got %q", apperrors.ErrInvalidInput, day)
	}
	return at, nil
}

func (s *ActivityService) Summary(ctx context.Context) (domain.Summary, error) {
	counts, err := s.ledger.Counts(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load ledger: %w", err)
	}
	return domain.Summarize(counts, s.clock.Now().In(s.loc)), nil
}

func (s *ActivityService) PostEntry(ctx context.Context, body string) (domain.JournalEntry, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.JournalEntry{}, fmt.Errorf("%w: journal body is required", apperrors.ErrInvalidInput)
	}
	entry := domain.JournalEntry{ID: s.idGen.New(), Body: body, PostedAt: s.clock.Now()}
	if err := entry.Validate(); err != nil {
		return domain.JournalEntry{}, err
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("append journal: %w", err)
	}
	if _, _, err := s.Record(ctx); err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}

func (s *ActivityService) ListEntries(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	return s.journal.Tail(ctx, limit)
}
