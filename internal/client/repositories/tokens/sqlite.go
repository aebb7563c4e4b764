package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/dmitrijs2005/eproduct/internal/dbx"
)

// SQLiteRepository stores the token as one row of the session table.
type SQLiteRepository struct {
	db  *sql.DB
	key string
}

// NewSQLiteRepository returns a Repository over db. The session table must
// already exist (see client.RunMigrations).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, key: common.AccessTokenKey}
}

func (r *SQLiteRepository) Load(ctx context.Context) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session[%s]: %w", r.key, err)
	}
	return value, nil
}

// Save replaces the stored token. An empty token purges the slot.
func (r *SQLiteRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return r.Purge(ctx)
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, r.key, token)
		if err != nil {
			return fmt.Errorf("failed to save session[%s]: %w", r.key, err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("failed to purge session[%s]: %w", r.key, err)
	}
	return nil
}
