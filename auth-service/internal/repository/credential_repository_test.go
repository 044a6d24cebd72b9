package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerline/bank/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientsTable mirrors the columns the customer service creates.
const clientsTable = `
	CREATE TABLE clients (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		identification TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		active         BOOLEAN NOT NULL DEFAULT 1,
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	)`

func newStore(t *testing.T) (*SQLCredentialStore, *database.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:", database.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx, database.Migration{Name: "clients", SQLite: clientsTable}))
	return NewSQLCredentialStore(db), db
}

func insertClient(t *testing.T, db *database.DB, identification, hash string, active bool) int64 {
	t.Helper()
	now := time.Now().UTC()
	res, err := db.ExecContext(context.Background(), db.Rebind(`
		INSERT INTO clients (name, identification, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`), "Jose Lema", identification, hash, active, now, now)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestSQLCredentialStore(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()
	id := insertClient(t, db, "1723456789", "$2a$10$hash", true)
	insertClient(t, db, "0650789456", "$2a$10$other", false)

	got, err := store.FindByIdentification(ctx, "1723456789")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Credential{ClientID: id, Identification: "1723456789", PasswordHash: "$2a$10$hash", Active: true}, *got)

	inactive, err := store.FindByIdentification(ctx, "0650789456")
	require.NoError(t, err)
	require.NotNil(t, inactive)
	assert.False(t, inactive.Active)

	byID, err := store.FindByClientID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "1723456789", byID.Identification)

	missing, err := store.FindByIdentification(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = store.FindByClientID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLCredentialStoreReportsStorageFailure(t *testing.T) {
	store, db := newStore(t)
	require.NoError(t, db.Close())

	_, err := store.FindByIdentification(context.Background(), "1723456789")
	assert.Error(t, err)
}
