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

const clientColumns = `id, name, gender, age, identification, address, phone_number, password_hash, active, created_at, updated_at`

// SQLStore is the write store for clients and the fallback of the read model.
type SQLStore struct {
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (r *SQLStore) Save(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, gender, age, identification, address, phone_number, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		client.Name, client.Gender, client.Age, client.Identification,
		client.Address, client.PhoneNumber, client.PasswordHash,
		client.Active, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *SQLStore) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, gender = $2, age = $3, identification = $4, address = $5,
			phone_number = $6, password_hash = $7, active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		client.Name, client.Gender, client.Age, client.Identification, client.Address,
		client.PhoneNumber, client.PasswordHash, client.Active, client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return expectOneRow(result, client.ID)
}

func (r *SQLStore) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Entity: errs.EntityClient, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (r *SQLStore) FindByIdentification(ctx context.Context, identification string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE identification = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, r.db.Rebind(query), identification))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by identification: %w", err)
	}
	return client, nil
}

func (r *SQLStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check client: %w", err)
	}
	return exists, nil
}

func (r *SQLStore) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clients WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *SQLStore) FindAll(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.Gender, &c.Age, &c.Identification,
		&c.Address, &c.PhoneNumber, &c.PasswordHash,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &errs.NotFoundError{Entity: errs.EntityClient, ID: id}
	}
	return nil
}
