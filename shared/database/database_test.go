package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:", DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", DefaultOptions())
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DriverPostgres}
	lite := &DB{Dialect: DriverSQLite}

	q := "SELECT id FROM ledger_entries WHERE entry_date BETWEEN $1 AND $2 AND cost > $ LIMIT $10"
	assert.Equal(t, q, pg.Rebind(q))
	assert.Equal(t, "SELECT id FROM ledger_entries WHERE entry_date BETWEEN ? AND ? AND cost > $ LIMIT ?", lite.Rebind(q))
}

func TestMigrateUsesDialectStatement(t *testing.T) {
	db := openMemory(t)

	err := db.Migrate(context.Background(),
		Migration{
			Name:     "create widgets",
			Postgres: "CREATE TABLE IF NOT EXISTS widgets (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL)",
			SQLite:   "CREATE TABLE IF NOT EXISTS widgets (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)",
		},
		Migration{Name: "index widgets", Postgres: "CREATE INDEX IF NOT EXISTS idx_widgets_name ON widgets(name)"},
	)
	require.NoError(t, err)

	// applying twice is harmless
	require.NoError(t, db.Migrate(context.Background(), Migration{
		SQLite: "CREATE TABLE IF NOT EXISTS widgets (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)",
	}))

	_, err = db.ExecContext(context.Background(), db.Rebind("INSERT INTO widgets (name) VALUES ($1)"), "gear")
	require.NoError(t, err)

	var name string
	require.NoError(t, db.QueryRowContext(context.Background(), db.Rebind("SELECT name FROM widgets WHERE id = $1"), 1).Scan(&name))
	assert.Equal(t, "gear", name)
}

func TestMigrateReportsFailingStep(t *testing.T) {
	db := openMemory(t)
	err := db.Migrate(context.Background(), Migration{Name: "broken", Postgres: "CREATE TABLE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration broken failed")
}
