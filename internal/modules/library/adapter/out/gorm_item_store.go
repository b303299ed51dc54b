package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

type itemRow struct {
	UserID           string `gorm:"primaryKey;size:128"`
	ID               string `gorm:"primaryKey;size:64"`
	Kind             string `gorm:"size:16;not null"`
	SourceKind       string `gorm:"size:16;not null"`
	SourceRef        string `gorm:"type:text;not null"`
	Title            string `gorm:"type:text;not null"`
	RawContent       string `gorm:"type:text"`
	Language         string `gorm:"size:8"`
	Summary          string `gorm:"type:text"`
	TagsJSON         string `gorm:"column:tags;type:text"`
	KeywordsJSON     string `gorm:"column:keyword_glossary;type:text"`
	PatternsJSON     string `gorm:"column:improvement_patterns;type:text"`
	ImprovementGuide string `gorm:"type:text"`
	AnalysisStatus   string `gorm:"size:16;not null"`
	LifecycleStatus  string `gorm:"size:16;not null;index"`
	IsTestPassed     bool
	FetchFailed      bool
	AddedAt          time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (itemRow) TableName() string { return "items" }

// GormItemStore is the hosted item store used by the postgres backend.
type GormItemStore struct {
	db     *gorm.DB
	userID string
}

func NewGormItemStore(db *gorm.DB, userID string) (*GormItemStore, error) {
	if err := db.AutoMigrate(&itemRow{}); err != nil {
		return nil, fmt.Errorf("migrate items: %w", err)
	}
	return &GormItemStore{db: db, userID: userID}, nil
}

var _ libraryout.ItemStore = (*GormItemStore)(nil)

func (s *GormItemStore) Save(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	row, err := toRow(s.userID, item)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (s *GormItemStore) FindByID(ctx context.Context, id string) (domain.Item, error) {
	var row itemRow
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", s.userID, id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Item{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("load item: %w", err)
	}
	return fromRow(row)
}

func (s *GormItemStore) List(ctx context.Context) ([]domain.Item, error) {
	var rows []itemRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Order("added_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *GormItemStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", s.userID, id).Delete(&itemRow{})
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func toRow(userID string, item domain.Item) (itemRow, error) {
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return itemRow{}, fmt.Errorf("encode tags: %w", err)
	}
	keywords, err := json.Marshal(item.Keywords)
	if err != nil {
		return itemRow{}, fmt.Errorf("encode keywords: %w", err)
	}
	patterns, err := json.Marshal(item.Patterns)
	if err != nil {
		return itemRow{}, fmt.Errorf("encode patterns: %w", err)
	}
	return itemRow{
		UserID:           userID,
		ID:               item.ID,
		Kind:             string(item.Kind),
		SourceKind:       string(item.SourceKind),
		SourceRef:        item.SourceRef,
		Title:            item.Title,
		RawContent:       item.RawContent,
		Language:         item.Language,
		Summary:          item.Summary,
		TagsJSON:         string(tags),
		KeywordsJSON:     string(keywords),
		PatternsJSON:     string(patterns),
		ImprovementGuide: item.ImprovementGuide,
		AnalysisStatus:   string(item.AnalysisStatus),
		LifecycleStatus:  string(item.LifecycleStatus),
		IsTestPassed:     item.IsTestPassed,
		FetchFailed:      item.FetchFailed,
		AddedAt:          item.AddedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}, nil
}

func fromRow(row itemRow) (domain.Item, error) {
	item := domain.Item{
		ID:               row.ID,
		Kind:             domain.Kind(row.Kind),
		SourceKind:       domain.SourceKind(row.SourceKind),
		SourceRef:        row.SourceRef,
		Title:            row.Title,
		RawContent:       row.RawContent,
		Language:         row.Language,
		Summary:          row.Summary,
		ImprovementGuide: row.ImprovementGuide,
		AnalysisStatus:   domain.AnalysisStatus(row.AnalysisStatus),
		LifecycleStatus:  domain.LifecycleStatus(row.LifecycleStatus),
		IsTestPassed:     row.IsTestPassed,
		FetchFailed:      row.FetchFailed,
		AddedAt:          row.AddedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if err := decodeJSONColumn(row.TagsJSON, &item.Tags); err != nil {
		return domain.Item{}, fmt.Errorf("decode tags of %s: %w", row.ID, err)
	}
	if err := decodeJSONColumn(row.KeywordsJSON, &item.Keywords); err != nil {
		return domain.Item{}, fmt.Errorf("decode keywords of %s: %w", row.ID, err)
	}
	if err := decodeJSONColumn(row.PatternsJSON, &item.Patterns); err != nil {
		return domain.Item{}, fmt.Errorf("decode patterns of %s: %w", row.ID, err)
	}
	return item, nil
}

func decodeJSONColumn(raw string, out any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
