package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		t.Skipf("sqlite unavailable (cgo disabled?): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpDown_SQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	n, err := Up(ctx, db, DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.Exec(`INSERT INTO users (id, identifier, secret_hash, role) VALUES (1, 'admin', 'h', 'superadministrator')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, identifier, secret_hash) VALUES (2, 'admin', 'h')`)
	require.Error(t, err, "identifier must be unique")

	n, err = Up(ctx, db, DialectSQLite)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, Down(ctx, db, DialectSQLite))
}

func TestUnsupportedDialect(t *testing.T) {
	_, err := Up(context.Background(), nil, "oracle")
	require.Error(t, err)
}
