package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/database"
	"github.com/ledgerline/bank/shared/models"
)

// ClientStore persists clients. Lookups of a missing id return a
// *errs.NotFoundError for the client.
type ClientStore interface {
	Save(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	// FindByIdentification returns nil, nil when no client carries the
	// identification.
	FindByIdentification(ctx context.Context, identification string) (*models.Client, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]models.Client, error)
}

// Migrations also back the auth service, which reads credentials from the
// same table.
var Migrations = []database.Migration{
	{
		Name: "create clients",
		Postgres: `
			CREATE TABLE IF NOT EXISTS clients (
				id             BIGSERIAL PRIMARY KEY,
				name           VARCHAR(100) NOT NULL,
				gender         VARCHAR(20) NOT NULL DEFAULT '',
				age            INTEGER NOT NULL DEFAULT 0,
				identification VARCHAR(20) NOT NULL UNIQUE,
				address        VARCHAR(200) NOT NULL DEFAULT '',
				phone_number   VARCHAR(20) NOT NULL DEFAULT '',
				password_hash  VARCHAR(100) NOT NULL,
				active         BOOLEAN NOT NULL DEFAULT TRUE,
				created_at     TIMESTAMPTZ NOT NULL,
				updated_at     TIMESTAMPTZ NOT NULL
			)`,
		SQLite: `
			CREATE TABLE IF NOT EXISTS clients (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				name           TEXT NOT NULL,
				gender         TEXT NOT NULL DEFAULT '',
				age            INTEGER NOT NULL DEFAULT 0,
				identification TEXT NOT NULL UNIQUE,
				address        TEXT NOT NULL DEFAULT '',
				phone_number   TEXT NOT NULL DEFAULT '',
				password_hash  TEXT NOT NULL,
				active         BOOLEAN NOT NULL DEFAULT 1,
				created_at     TIMESTAMP NOT NULL,
				updated_at     TIMESTAMP NOT NULL
			)`,
	},
}
