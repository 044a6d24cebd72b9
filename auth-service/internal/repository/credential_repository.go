// Package repository reads login credentials. The clients table belongs to
// the customer service; this package only ever selects from it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerline/bank/shared/database"
)

// Credential is the subset of a client needed to authenticate it.
type Credential struct {
	ClientID       int64
	Identification string
	PasswordHash   string
	Active         bool
}

type CredentialStore interface {
	// FindByIdentification returns nil, nil when no client carries the
	// identification.
	FindByIdentification(ctx context.Context, identification string) (*Credential, error)
	FindByClientID(ctx context.Context, clientID int64) (*Credential, error)
}

type SQLCredentialStore struct {
	db *database.DB
}

func NewSQLCredentialStore(db *database.DB) *SQLCredentialStore {
	return &SQLCredentialStore{db: db}
}

func (r *SQLCredentialStore) FindByIdentification(ctx context.Context, identification string) (*Credential, error) {
	query := `SELECT id, identification, password_hash, active FROM clients WHERE identification = $1`
	return r.find(ctx, query, identification)
}

// FindByClientID is used on refresh so a deactivated or deleted client
// cannot keep renewing its token.
func (r *SQLCredentialStore) FindByClientID(ctx context.Context, clientID int64) (*Credential, error) {
	query := `SELECT id, identification, password_hash, active FROM clients WHERE id = $1`
	return r.find(ctx, query, clientID)
}

func (r *SQLCredentialStore) find(ctx context.Context, query string, arg any) (*Credential, error) {
	var c Credential
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), arg).Scan(
		&c.ClientID, &c.Identification, &c.PasswordHash, &c.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &c, nil
}
