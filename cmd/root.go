// Package cmd implements the skilllink command line: the API server and the
// operational tasks around it.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skilllink/backend/config"
	"skilllink/backend/logging"
	"skilllink/backend/store"
	"skilllink/backend/store/memory"
	"skilllink/backend/store/postgres"
)

var storeFlag string

var rootCmd = &cobra.Command{
	Use:   "skilllink",
	Short: "SkillLink student network API",
	Long: `SkillLink serves the JSON API and websocket hub of the student
networking and marketplace application.

Configuration comes from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "data store to use (postgres or memory); overrides STORE")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, adminCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Read()
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects to the configured store. With migrate set, pending
// postgres migrations are applied first.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (store.Store, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.New(), nil
	}

	pg, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := pg.Migrate(ctx, "up"); err != nil {
			pg.Close()
			return nil, err
		}
	}
	return pg, nil
}
