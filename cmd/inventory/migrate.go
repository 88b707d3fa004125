package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smartsupply/inventory-service/internal/sysutil"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := sysutil.SetupLogging(os.Stderr, cfg.LogLevel, cfg.LogPretty)

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			logger.Info().Str("db", cfg.DBPath).Msg("schema up to date")
			return nil
		},
	}
}
