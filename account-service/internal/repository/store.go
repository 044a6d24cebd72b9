package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/database"
	"github.com/ledgerline/bank/shared/models"
)

// AccountStore persists accounts. Lookups of a missing number return a
// *errs.NotFoundError for the account.
type AccountStore interface {
	Save(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	FindByNumber(ctx context.Context, accountNumber int64) (*models.Account, error)
	ExistsByNumber(ctx context.Context, accountNumber int64) (bool, error)
	DeleteByNumber(ctx context.Context, accountNumber int64) error
	// FindAll returns accounts ordered by number. A clientID of zero lists
	// every client's accounts.
	FindAll(ctx context.Context, clientID int64) ([]models.Account, error)
}

var Migrations = []database.Migration{
	{
		Name: "create accounts",
		Postgres: `
			CREATE TABLE IF NOT EXISTS accounts (
				account_number  BIGSERIAL PRIMARY KEY,
				account_type    VARCHAR(50) NOT NULL,
				initial_balance NUMERIC(19, 2) NOT NULL CHECK (initial_balance >= 0),
				active          BOOLEAN NOT NULL DEFAULT TRUE,
				client_id       BIGINT NOT NULL,
				created_at      TIMESTAMPTZ NOT NULL,
				updated_at      TIMESTAMPTZ NOT NULL
			)`,
		SQLite: `
			CREATE TABLE IF NOT EXISTS accounts (
				account_number  INTEGER PRIMARY KEY AUTOINCREMENT,
				account_type    TEXT NOT NULL,
				initial_balance TEXT NOT NULL,
				active          BOOLEAN NOT NULL DEFAULT 1,
				client_id       INTEGER NOT NULL,
				created_at      TIMESTAMP NOT NULL,
				updated_at      TIMESTAMP NOT NULL
			)`,
	},
	{
		Name:     "index accounts by client",
		Postgres: `CREATE INDEX IF NOT EXISTS idx_accounts_client ON accounts (client_id)`,
	},
}
