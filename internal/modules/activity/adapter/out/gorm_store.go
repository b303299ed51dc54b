package out

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindshelf/internal/modules/activity/domain"
	activityout "mindshelf/internal/modules/activity/port/out"
)

type ledgerRow struct {
	UserID    string `gorm:"primaryKey;size:128"`
	Day       string `gorm:"primaryKey;size:10"`
	Actions   int    `gorm:"not null"`
	UpdatedAt time.Time
}

func (ledgerRow) TableName() string { return "activity_ledger" }

type journalRow struct {
	ID       string    `gorm:"primaryKey;size:64"`
	UserID   string    `gorm:"index;size:128;not null"`
	Body     string    `gorm:"type:text;not null"`
	PostedAt time.Time `gorm:"index;not null"`
}

func (journalRow) TableName() string { return "journal_entries" }

// GormActivityStore is the hosted ledger and journal, one row per user+day and
// one row per entry.
type GormActivityStore struct {
	db     *gorm.DB
	userID string
}

func NewGormActivityStore(db *gorm.DB, userID string) (*GormActivityStore, error) {
	if err := db.AutoMigrate(&ledgerRow{}, &journalRow{}); err != nil {
		return nil, fmt.Errorf("migrate activity tables: %w", err)
	}
	return &GormActivityStore{db: db, userID: userID}, nil
}

var (
	_ activityout.LedgerStore  = (*GormActivityStore)(nil)
	_ activityout.JournalStore = (*GormActivityStore)(nil)
)

func (s *GormActivityStore) Increment(ctx context.Context, day string) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := ledgerRow{UserID: s.userID, Day: day, Actions: 1, UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{
				"actions":    gorm.Expr("activity_ledger.actions + 1"),
				"updated_at": row.UpdatedAt,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&ledgerRow{}).
			Where("user_id = ? AND day = ?", s.userID, day).
			Select("actions").Scan(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("increment activity: %w", err)
	}
	return count, nil
}

// Put sets day's count outright; write-behind replays use it so retries stay
// idempotent.
func (s *GormActivityStore) Put(ctx context.Context, day string, count int) error {
	row := ledgerRow{UserID: s.userID, Day: day, Actions: count, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"actions", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put activity: %w", err)
	}
	return nil
}

func (s *GormActivityStore) Counts(ctx context.Context) (map[string]int, error) {
	var rows []ledgerRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Day] = row.Actions
	}
	return out, nil
}

func (s *GormActivityStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	row := journalRow{ID: entry.ID, UserID: s.userID, Body: entry.Body, PostedAt: entry.PostedAt.UTC()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

func (s *GormActivityStore) Tail(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	var rows []journalRow
	q := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Order("posted_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	out := make([]domain.JournalEntry, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = domain.JournalEntry{ID: row.ID, Body: row.Body, PostedAt: row.PostedAt}
	}
	return out, nil
}
