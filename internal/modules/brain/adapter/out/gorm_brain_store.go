package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
)

type brainRow struct {
	UserID    string    `gorm:"primaryKey;size:128"`
	Content   string    `gorm:"type:text;not null"`
	Revision  int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (brainRow) TableName() string { return "brains" }

// GormBrainStore keeps one row per user in the hosted database.
type GormBrainStore struct {
	db     *gorm.DB
	userID string
}

func NewGormBrainStore(db *gorm.DB, userID string) (*GormBrainStore, error) {
	if err := db.AutoMigrate(&brainRow{}); err != nil {
		return nil, fmt.Errorf("migrate brains: %w", err)
	}
	return &GormBrainStore{db: db, userID: userID}, nil
}

var _ brainout.BrainStore = (*GormBrainStore)(nil)

func (s *GormBrainStore) Load(ctx context.Context) (domain.Brain, error) {
	var row brainRow
	err := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Brain{}, nil
	}
	if err != nil {
		return domain.Brain{}, fmt.Errorf("load brain: %w", err)
	}
	return domain.Brain{Content: row.Content, Revision: row.Revision, UpdatedAt: row.UpdatedAt}, nil
}

func (s *GormBrainStore) Save(ctx context.Context, brain domain.Brain) error {
	row := brainRow{UserID: s.userID, Content: brain.Content, Revision: brain.Revision, UpdatedAt: brain.UpdatedAt}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "revision", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save brain: %w", err)
	}
	return nil
}
