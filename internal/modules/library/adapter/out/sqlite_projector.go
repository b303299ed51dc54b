package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
)

type SQLiteItemProjector struct {
	db     *sql.DB
	userID string
}

func NewSQLiteItemProjector(db *sql.DB, userID string) (libraryout.ItemIndexProjector, error) {
	projector := &SQLiteItemProjector{db: db, userID: userID}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteItemProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS items (
  user_id TEXT NOT NULL,
  id TEXT NOT NULL,
  kind TEXT NOT NULL,
  source_kind TEXT NOT NULL,
  source_ref TEXT NOT NULL,
  title TEXT NOT NULL,
  language TEXT,
  analysis_status TEXT NOT NULL,
  lifecycle_status TEXT NOT NULL,
  is_test_passed INTEGER NOT NULL,
  fetch_failed INTEGER NOT NULL,
  added_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS item_tags (
  user_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  tag TEXT NOT NULL,
  PRIMARY KEY (user_id, item_id, tag)
);
CREATE INDEX IF NOT EXISTS idx_item_tags_tag ON item_tags(user_id, tag);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create item tables: %w", err)
	}
	return nil
}

func (s *SQLiteItemProjector) Reset(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE user_id = ?`, s.userID); err != nil {
			return fmt.Errorf("reset item tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE user_id = ?`, s.userID); err != nil {
			return fmt.Errorf("reset items: %w", err)
		}
		return nil
	})
}

func (s *SQLiteItemProjector) UpsertItem(ctx context.Context, item domain.Item) error {
	const stmt = `
INSERT INTO items (user_id, id, kind, source_kind, source_ref, title, language, analysis_status, lifecycle_status, is_test_passed, fetch_failed, added_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, id) DO UPDATE SET
  kind=excluded.kind,
  source_kind=excluded.source_kind,
  source_ref=excluded.source_ref,
  title=excluded.title,
  language=excluded.language,
  analysis_status=excluded.analysis_status,
  lifecycle_status=excluded.lifecycle_status,
  is_test_passed=excluded.is_test_passed,
  fetch_failed=excluded.fetch_failed,
  updated_at=excluded.updated_at;
`
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, stmt,
			s.userID,
			item.ID,
			string(item.Kind),
			string(item.SourceKind),
			item.SourceRef,
			item.Title,
			item.Language,
			string(item.AnalysisStatus),
			string(item.LifecycleStatus),
			boolInt(item.IsTestPassed),
			boolInt(item.FetchFailed),
			item.AddedAt.UTC().Format(time.RFC3339),
			item.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("upsert item: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE user_id = ? AND item_id = ?`, s.userID, item.ID); err != nil {
			return fmt.Errorf("clear item tags: %w", err)
		}
		for _, tag := range item.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO item_tags (user_id, item_id, tag) VALUES (?, ?, ?)`, s.userID, item.ID, tag); err != nil {
				return fmt.Errorf("insert item tag: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteItemProjector) DeleteItem(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE user_id = ? AND item_id = ?`, s.userID, id); err != nil {
			return fmt.Errorf("delete item tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE user_id = ? AND id = ?`, s.userID, id); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
}

func (s *SQLiteItemProjector) TagCounts(ctx context.Context) ([]domain.TagCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT tag, COUNT(*) AS n FROM item_tags
WHERE user_id = ?
GROUP BY tag
ORDER BY n DESC, tag ASC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("query tag counts: %w", err)
	}
	defer rows.Close()
	out := []domain.TagCount{}
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag counts: %w", err)
	}
	return out, nil
}

func (s *SQLiteItemProjector) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
