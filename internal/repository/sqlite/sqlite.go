// Package sqlite implements the repository interfaces on SQLite, the default
// storage backend of the shop.
//
// The driver is modernc.org/sqlite, a pure Go translation of SQLite, so the
// server builds without a C toolchain. It registers itself with database/sql
// under the name "sqlite".
//
// PRAGMAS PER CONNECTION:
// sql.DB is a pool, and SQLite pragmas such as foreign_keys apply to a single
// connection only. They are passed as _pragma parameters in the DSN so that
// every connection the pool opens gets them.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"

	_ "modernc.org/sqlite"
)

// compile-time check that *DB implements the whole store
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath and brings the
// schema up to date.
//
//	db, err := sqlite.New("data/purchases.db")
//	if err != nil { ... }
//	defer db.Close()
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.Migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn turns a file path into a modernc DSN carrying the connection pragmas.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + q.Encode()
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migration is one schema step. Versions are applied in order and recorded in
// schema_migrations, so each runs exactly once per database file.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				name       TEXT NOT NULL UNIQUE,
				email      TEXT NOT NULL UNIQUE,
				password   TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`,
	},
	{
		version: 2,
		name:    "create products",
		sql: `
			CREATE TABLE IF NOT EXISTS products (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				name              TEXT NOT NULL,
				description       TEXT NOT NULL,
				img_url           TEXT NOT NULL,
				price_cents       INTEGER NOT NULL,
				quantity          INTEGER NOT NULL,
				stripe_product_id TEXT NOT NULL DEFAULT '',
				stripe_price_id   TEXT NOT NULL DEFAULT '',
				created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`,
	},
	{
		version: 3,
		name:    "create comments",
		sql: `
			CREATE TABLE IF NOT EXISTS comments (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				text       TEXT NOT NULL,
				author_id  INTEGER NOT NULL REFERENCES users(id),
				product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_comments_product_id ON comments(product_id);`,
	},
	{
		version: 4,
		name:    "create product_purchase",
		sql: `
			CREATE TABLE IF NOT EXISTS product_purchase (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				buyer_id   INTEGER NOT NULL REFERENCES users(id),
				product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				quantity   INTEGER NOT NULL DEFAULT 1,
				UNIQUE (buyer_id, product_id)
			);`,
	},
}

// Migrate applies every migration newer than the recorded schema version.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`)
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
		if err := db.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func (db *DB) apply(ctx context.Context, m migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
		m.version, m.name,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration, or 0 on a fresh file.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v sql.NullInt64
	err := db.conn.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return int(v.Int64), nil
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint error on
// the given column ("users.email" and the like).
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// noRows is errors.Is(err, sql.ErrNoRows), shortened for the many lookups.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
