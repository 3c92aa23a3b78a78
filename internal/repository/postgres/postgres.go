// Package postgres implements the repository interfaces on PostgreSQL using
// pgx's native connection pool.
//
// The SQL mirrors the sqlite package statement for statement; the differences
// are placeholders ($1 instead of ?), BIGSERIAL keys read back with RETURNING,
// and constraint errors that arrive as *pgconn.PgError with a SQLSTATE code
// instead of a message to match on.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// SQLSTATE codes we translate into application errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type DB struct {
	pool *pgxpool.Pool
}

// New connects to the database at connString (a postgres:// URL or a
// key=value DSN), verifies the connection and migrates the schema.
func New(ctx context.Context, connString string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

// Close releases every pooled connection. It never fails; the error return
// satisfies repository.Store.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{1, "create users", `
		CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			name       VARCHAR(100) NOT NULL UNIQUE,
			email      VARCHAR(100) NOT NULL UNIQUE,
			password   VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{2, "create products", `
		CREATE TABLE IF NOT EXISTS products (
			id                BIGSERIAL PRIMARY KEY,
			name              VARCHAR(250) NOT NULL,
			description       VARCHAR(250) NOT NULL,
			img_url           VARCHAR(250) NOT NULL,
			price_cents       BIGINT NOT NULL,
			quantity          INTEGER NOT NULL,
			stripe_product_id VARCHAR(250) NOT NULL DEFAULT '',
			stripe_price_id   VARCHAR(250) NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{3, "create comments", `
		CREATE TABLE IF NOT EXISTS comments (
			id         BIGSERIAL PRIMARY KEY,
			text       TEXT NOT NULL,
			author_id  BIGINT NOT NULL REFERENCES users(id),
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_comments_product_id ON comments(product_id)`},
	{4, "create product_purchase", `
		CREATE TABLE IF NOT EXISTS product_purchase (
			id         BIGSERIAL PRIMARY KEY,
			buyer_id   BIGINT NOT NULL REFERENCES users(id),
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			quantity   INTEGER NOT NULL DEFAULT 1,
			UNIQUE (buyer_id, product_id)
		)`},
}

// Migrate applies pending migrations, each in its own transaction together
// with its schema_migrations row.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.sql); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.version, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v *int
	if err := db.pool.QueryRow(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

// pgCode returns the SQLSTATE and constraint name of err, if it is a
// PostgreSQL error.
func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
