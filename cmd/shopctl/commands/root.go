package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/config"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/backend"
)

// options are the global flags. Empty values fall back to the environment.
type options struct {
	driver     string
	dbPath     string
	dbURI      string
	verbose    bool
	jsonOutput bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "shopctl",
		Short: "Operate the photo shop database",
		Long: `shopctl works on the photo shop's database with the server's configuration
(environment variables or a .env file). Flags override the environment.

Commands:
  migrate up      - Create or update the schema
  migrate status  - Show the applied schema version
  products list   - List the catalog with stock levels
  cart list       - Show a user's cart`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Storage driver: sqlite, postgres or gorm (default $DB_DRIVER)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db-path", "", "SQLite database file (default $DB_PATH)")
	root.PersistentFlags().StringVar(&opts.dbURI, "db-uri", "", "Connection string for postgres/gorm (default $DB_URI)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(newMigrateCmd(opts), newProductsCmd(opts), newCartCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openStore loads the configuration, applies flag overrides and opens the
// store. The caller closes it.
func (o *options) openStore(ctx context.Context, cmd *cobra.Command) (repository.Store, error) {
	logger := o.logger(cmd)

	cfg, err := config.Load(logger)
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.DBDriver = o.driver
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.dbURI != "" {
		cfg.DBURI = o.dbURI
	}
	if cfg.DBDriver == config.DriverGorm && cfg.DBURI == "" {
		cfg.DBURI = cfg.DBPath
	}
	return backend.Open(ctx, cfg, logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
