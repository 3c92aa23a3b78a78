package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/backend"
)

func newMigrateCmd(opts *options) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update the schema",
		Long: `Apply every pending schema change. Opening the store already migrates, so
this is safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := opts.openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			m, ok := store.(backend.Migrator)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "schema migrated from models")
				return nil
			}
			if err := m.Migrate(ctx); err != nil {
				return err
			}
			v, err := m.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := opts.openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			m, ok := store.(backend.Migrator)
			if !ok {
				return fmt.Errorf("the %T store does not track schema versions", store)
			}
			v, err := m.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"version": v})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, statusCmd)
	return migrateCmd
}
