package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skilllink/backend/config"
	"skilllink/backend/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|redo|version]",
	Short: "Run database migrations",
	Long: `Run goose commands against the embedded postgres migrations.
With no argument, all pending migrations are applied.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status", "redo", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Store != config.StorePostgres {
			return fmt.Errorf("migrate requires the postgres store (got %q)", cfg.Store)
		}

		ctx := cmd.Context()
		pg, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		return pg.Migrate(ctx, command)
	},
}
