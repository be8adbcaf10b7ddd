package cli

import (
	"github.com/spf13/cobra"

	"github.com/aijournal/aijournal/internal/config"
	"github.com/aijournal/aijournal/internal/db"
	"github.com/aijournal/aijournal/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if debugMode {
				cfg.Debug = true
			}

			log := logger.NewLogger(cfg.Debug)
			defer func() { _ = log.Sync() }()

			database, err := db.Connect(cfg.DB, cfg.Debug)
			if err != nil {
				return err
			}
			if err := db.Migrate(database); err != nil {
				return err
			}

			log.Info("schema up to date")
			return nil
		},
	}
}
