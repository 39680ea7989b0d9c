package cmd

import (
	"fmt"

	"github.com/frahmantamala/expense-tracker/internal/expense/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "create the expenses table when it does not exist",
	Long:  `Create the expenses table when it does not exist. An existing table is left as it is; the other commands do the same at start-up.`,
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := initLogger(cfg)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	if err := database.EnsureSchema(cmd.Context(), db); err != nil {
		return err
	}

	log.Info("expenses table ready", "driver", cfg.Database.Driver, "database", cfg.Database.Source)
	return nil
}
