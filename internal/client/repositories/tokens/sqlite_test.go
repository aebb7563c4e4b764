package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestLoad_EmptyReturnsBlank(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	tok, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSaveThenLoad(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "abc"))
	tok, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestSave_OverwritesSingleRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "old"))
	require.NoError(t, r.Save(ctx, "new"))

	tok, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", tok)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSave_EmptyPurges(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "abc"))
	require.NoError(t, r.Save(ctx, ""))

	tok, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestPurge_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "abc"))
	require.NoError(t, r.Purge(ctx))
	require.NoError(t, r.Purge(ctx))

	tok, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestClosedDB_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Load(ctx)
	require.ErrorContains(t, err, "failed to load session[access_token]")

	err = r.Save(ctx, "x")
	require.ErrorContains(t, err, "begin tx")

	err = r.Purge(ctx)
	require.ErrorContains(t, err, "failed to purge session[access_token]")
}

func TestSave_ExecFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO session`).
		WithArgs("access_token", "tok").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	r := NewSQLiteRepository(db)
	err = r.Save(context.Background(), "tok")
	require.ErrorContains(t, err, "failed to save session[access_token]")
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_CommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO session`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("locked"))

	r := NewSQLiteRepository(db)
	err = r.Save(context.Background(), "tok")
	require.ErrorContains(t, err, "commit tx")
	require.NoError(t, mock.ExpectationsWereMet())
}
