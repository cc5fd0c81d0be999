package cmd

import (
	"fmt"

	"github.com/lucasz92/zenitwms-sub000/internal/core/config"
	"github.com/lucasz92/zenitwms-sub000/internal/core/logger"
	"github.com/lucasz92/zenitwms-sub000/internal/database/migration"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.MigrationsDir
		}
		source, err := migration.SourceURL(dir)
		if err != nil {
			return err
		}

		log := logger.NewLogger(cfg.Env)
		defer log.Sync()

		if err := migration.Migrate(cfg.DatabaseURL, source, true, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	},
}
