package out

import (
	"context"
	"database/sql"
	"fmt"

	activityout "mindshelf/internal/modules/activity/port/out"
)

// SQLiteLedgerStore keeps the ledger in the local projection database,
// keyed by user and day.
type SQLiteLedgerStore struct {
	db     *sql.DB
	userID string
}

func NewSQLiteLedgerStore(db *sql.DB, userID string) (activityout.LedgerStore, error) {
	store := &SQLiteLedgerStore{db: db, userID: userID}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteLedgerStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activity_ledger (
  user_id TEXT NOT NULL,
  day TEXT NOT NULL,
  actions INTEGER NOT NULL,
  PRIMARY KEY (user_id, day)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create activity_ledger table: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerStore) Increment(ctx context.Context, day string) (int, error) {
	const stmt = `
INSERT INTO activity_ledger (user_id, day, actions)
VALUES (?, ?, 1)
ON CONFLICT(user_id, day) DO UPDATE SET actions = activity_ledger.actions + 1
RETURNING actions;
`
	var count int
	if err := s.db.QueryRowContext(ctx, stmt, s.userID, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment activity: %w", err)
	}
	return count, nil
}

func (s *SQLiteLedgerStore) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, actions FROM activity_ledger WHERE user_id = ?`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			day   string
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}
