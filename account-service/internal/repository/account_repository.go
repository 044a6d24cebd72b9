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

const accountColumns = `account_number, account_type, initial_balance, active, client_id, created_at, updated_at`

// SQLStore is the write store for accounts and the fallback of every read.
type SQLStore struct {
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (r *SQLStore) Save(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (account_type, initial_balance, active, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING account_number
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		account.AccountType, account.InitialBalance, account.Active,
		account.ClientID, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *SQLStore) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET account_type = $1, initial_balance = $2, active = $3, client_id = $4, updated_at = $5
		WHERE account_number = $6
	`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		account.AccountType, account.InitialBalance, account.Active,
		account.ClientID, account.UpdatedAt, account.AccountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(result, account.AccountNumber)
}

func (r *SQLStore) FindByNumber(ctx context.Context, accountNumber int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, r.db.Rebind(query), accountNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Entity: errs.EntityAccount, ID: accountNumber}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *SQLStore) ExistsByNumber(ctx context.Context, accountNumber int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return exists, nil
}

func (r *SQLStore) DeleteByNumber(ctx context.Context, accountNumber int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM accounts WHERE account_number = $1`), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return expectOneRow(result, accountNumber)
}

func (r *SQLStore) FindAll(ctx context.Context, clientID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_number`
	var args []any
	if clientID > 0 {
		query = `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY account_number`
		args = append(args, clientID)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.AccountNumber, &a.AccountType, &a.InitialBalance,
		&a.Active, &a.ClientID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func expectOneRow(result sql.Result, accountNumber int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &errs.NotFoundError{Entity: errs.EntityAccount, ID: accountNumber}
	}
	return nil
}
