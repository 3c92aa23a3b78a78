// Package backend opens the repository.Store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/config"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/gormstore"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/postgres"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/sqlite"
)

// Migrator is implemented by the raw SQL backends, which track applied
// schema versions. The ORM backend migrates from the models instead.
type Migrator interface {
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
}

// Open connects to the configured backend. The schema is brought up to date
// as part of opening.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite store", slog.String("path", cfg.DBPath))
		return db, nil

	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DBURI)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return db, nil

	case config.DriverGorm:
		db, err := gormstore.Open(cfg.DBURI, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using gorm store")
		return db, nil
	}
	return nil, fmt.Errorf("backend: unknown driver %q", cfg.DBDriver)
}
