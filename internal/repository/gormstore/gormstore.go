// Package gormstore implements the repository interfaces with GORM, for
// deployments that prefer an ORM-managed schema.
//
// The same store runs on PostgreSQL or on a SQLite file: a DSN starting with
// postgres:// or postgresql:// selects the postgres dialect, anything else is
// taken as a SQLite path. The schema comes from AutoMigrate on the model
// structs, so table and column names match the raw SQL backends.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

// Open connects with the dialect matching dsn and migrates the schema.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slogWriter{log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: opening database: %w", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Comment{}, &model.CartLine{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	// Pragmas go in the DSN so every pooled connection gets them. The keys
	// are mattn/go-sqlite3 syntax, the driver under gorm.io/driver/sqlite.
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return sqlite.Open(dsn + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gormstore: getting sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) withContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// slogWriter routes GORM's slow-query and error lines into the application
// logger.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
