package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/database"
	"github.com/ledgerline/bank/shared/models"
)

// LedgerStore persists ledger entries. Lookups of a missing id return a
// *errs.NotFoundError for the ledger entry.
type LedgerStore interface {
	Save(ctx context.Context, entry *models.LedgerEntry) error
	Update(ctx context.Context, entry *models.LedgerEntry) error
	FindByID(ctx context.Context, id int64) (*models.LedgerEntry, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]models.LedgerEntry, error)
	// FindByDateRange returns entries dated within [start, end] ordered by
	// date, then id.
	FindByDateRange(ctx context.Context, start, end models.Date) ([]models.LedgerEntry, error)
}

var Migrations = []database.Migration{
	{
		Name: "create ledger_entries",
		Postgres: `
			CREATE TABLE IF NOT EXISTS ledger_entries (
				id              BIGSERIAL PRIMARY KEY,
				entry_date      DATE NOT NULL,
				account_number  BIGINT NOT NULL,
				entry_type      VARCHAR(50) NOT NULL,
				opening_balance BIGINT NOT NULL,
				amount          BIGINT NOT NULL,
				closing_balance BIGINT NOT NULL CHECK (closing_balance >= 0),
				active          BOOLEAN NOT NULL DEFAULT TRUE,
				created_at      TIMESTAMPTZ NOT NULL,
				updated_at      TIMESTAMPTZ NOT NULL
			)`,
		SQLite: `
			CREATE TABLE IF NOT EXISTS ledger_entries (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				entry_date      TEXT NOT NULL,
				account_number  INTEGER NOT NULL,
				entry_type      TEXT NOT NULL,
				opening_balance INTEGER NOT NULL,
				amount          INTEGER NOT NULL,
				closing_balance INTEGER NOT NULL CHECK (closing_balance >= 0),
				active          BOOLEAN NOT NULL DEFAULT 1,
				created_at      TIMESTAMP NOT NULL,
				updated_at      TIMESTAMP NOT NULL
			)`,
	},
	{
		Name:     "index ledger_entries by date",
		Postgres: `CREATE INDEX IF NOT EXISTS idx_ledger_entries_date ON ledger_entries (entry_date, id)`,
	},
	{
		Name:     "index ledger_entries by account",
		Postgres: `CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries (account_number)`,
	},
}
