package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pvestal/vacavibes/internal/models"
)

// UpsertAccount creates or updates an account based on its OIDC subject.
// Called on every successful login: the first login sets created_at, every
// login refreshes the profile fields and last_login_at.
func (d *DB) UpsertAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (sub, email, name, picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			picture = EXCLUDED.picture,
			last_login_at = NOW(),
			updated_at = NOW()
		RETURNING id, created_at, last_login_at, updated_at
	`

	return d.Pool.QueryRow(ctx, query,
		account.Sub,
		account.Email,
		account.Name,
		account.Picture,
	).Scan(&account.ID, &account.CreatedAt, &account.LastLoginAt, &account.UpdatedAt)
}

const accountColumns = `id, sub, email, name, picture, created_at, last_login_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.Sub,
		&a.Email,
		&a.Name,
		&a.Picture,
		&a.CreatedAt,
		&a.LastLoginAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountBySub retrieves an account by its OIDC subject identifier.
func (d *DB) GetAccountBySub(ctx context.Context, sub string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE sub = $1`
	return scanAccount(d.Pool.QueryRow(ctx, query, sub))
}

// GetAccountByID retrieves an account by its UUID.
func (d *DB) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(d.Pool.QueryRow(ctx, query, id))
}

// GetAccountByEmail retrieves an account by its email address. If more than
// one account carries the address, the earliest-created one wins.
func (d *DB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanAccount(d.Pool.QueryRow(ctx, query, email))
}

// SearchAccounts searches the directory by name or email, excluding the
// requesting account.
func (d *DB) SearchAccounts(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]models.Account, error) {
	q := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id != $1
		  AND (
		    name ILIKE '%' || $2 || '%'
		    OR email ILIKE '%' || $2 || '%'
		  )
		ORDER BY name ASC
		LIMIT $3
	`

	rows, err := d.Pool.Query(ctx, q, excludeID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(
			&a.ID, &a.Sub, &a.Email, &a.Name, &a.Picture,
			&a.CreatedAt, &a.LastLoginAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// GetAccountsByIDs retrieves accounts for a set of ids. Missing ids are
// silently omitted.
func (d *DB) GetAccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY name ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(
			&a.ID, &a.Sub, &a.Email, &a.Name, &a.Picture,
			&a.CreatedAt, &a.LastLoginAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// GetAccountCount returns the total number of accounts.
func (d *DB) GetAccountCount(ctx context.Context) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}
