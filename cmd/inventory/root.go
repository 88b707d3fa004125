package main

import (
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/config"
	"github.com/smartsupply/inventory-service/internal/repo"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "inventory",
		Short:        "SmartSupply inventory service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal outside local development.
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	return cfg, errors.Wrap(err, "load config")
}

// openDB opens the configured database and applies the schema.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DBPath, repo.Options{Tracing: cfg.OTEL.Enabled})
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
