package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pvestal/vacavibes/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevAccounts inserts test accounts for development. Skips accounts
// that already exist.
func (d *DB) SeedDevAccounts(ctx context.Context) error {
	accounts := []struct {
		sub   string
		email string
		name  string
	}{
		{"dev-alice", "alice@example.com", "Alice Example"},
		{"dev-bob", "bob@example.com", "Bob Example"},
		{"dev-carol", "carol@example.com", "Carol Example"},
	}

	query := `
		INSERT INTO accounts (sub, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (sub) DO NOTHING
	`

	for _, a := range accounts {
		if _, err := d.Pool.Exec(ctx, query, a.sub, a.email, a.name); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", a.sub, err)
		}
	}

	return nil
}
