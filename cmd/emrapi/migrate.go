package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdegraft/openmrs-module-emrapi/internal/db"
	"github.com/jdegraft/openmrs-module-emrapi/internal/exitcode"
	"github.com/jdegraft/openmrs-module-emrapi/internal/logging"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the dict and ingest schemas",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, "emrapi-migrate")
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.TransformError)
	}

	status, err := db.ReadSchemaStatus(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("schema check failed")
		os.Exit(exitcode.TransformError)
	}
	if status.MapTypes < int64(len(model.AllMapTypes)) {
		log.Error().Int64("map_types", status.MapTypes).Msg("well-known map types missing after migration")
		os.Exit(exitcode.TransformError)
	}

	log.Info().
		Int64("dict_tables", status.DictTables).
		Int64("ingest_tables", status.IngestTables).
		Int64("map_types", status.MapTypes).
		Int64("loaded_files", status.LoadedFiles).
		Msg("dictionary schema ready")
	return nil
}
