package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerline/bank/shared/database"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
)

const ledgerColumns = `id, entry_date, account_number, entry_type, opening_balance, amount, closing_balance, active, created_at, updated_at`

// SQLStore keeps ledger entries in PostgreSQL or SQLite.
type SQLStore struct {
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (r *SQLStore) Save(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (entry_date, account_number, entry_type, opening_balance, amount, closing_balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		entry.Date, entry.AccountNumber, entry.Type,
		entry.OpeningBalance, entry.Amount, entry.ClosingBalance,
		entry.Active, entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (r *SQLStore) Update(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET entry_date = $1, account_number = $2, entry_type = $3, opening_balance = $4,
			amount = $5, closing_balance = $6, active = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		entry.Date, entry.AccountNumber, entry.Type, entry.OpeningBalance,
		entry.Amount, entry.ClosingBalance, entry.Active, entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	return expectOneRow(result, entry.ID)
}

func (r *SQLStore) FindByID(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return entry, nil
}

func (r *SQLStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ledger entry: %w", err)
	}
	return exists, nil
}

func (r *SQLStore) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM ledger_entries WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *SQLStore) FindAll(ctx context.Context) ([]models.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries ORDER BY id`
	return r.list(ctx, query)
}

func (r *SQLStore) FindByDateRange(ctx context.Context, start, end models.Date) ([]models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE entry_date BETWEEN $1 AND $2
		ORDER BY entry_date, id
	`
	return r.list(ctx, query, start, end)
}

func (r *SQLStore) list(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(
		&e.ID, &e.Date, &e.AccountNumber, &e.Type,
		&e.OpeningBalance, &e.Amount, &e.ClosingBalance,
		&e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: id}
	}
	return nil
}
