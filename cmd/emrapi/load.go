package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jdegraft/openmrs-module-emrapi/internal/db"
	"github.com/jdegraft/openmrs-module-emrapi/internal/exitcode"
	"github.com/jdegraft/openmrs-module-emrapi/internal/ingest"
	"github.com/jdegraft/openmrs-module-emrapi/internal/logging"
	"github.com/jdegraft/openmrs-module-emrapi/internal/metrics"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load concept dictionary Parquet files into the database",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.NamesPath, "names", "", "Path to concept names Parquet file")
	f.StringVar(&cfg.MappingsPath, "mappings", "", "Path to concept maps Parquet file")
	f.BoolVar(&cfg.Force, "force", false, "Reload even if the file SHA is already loaded")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after transform")
	f.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus load metrics to this textfile")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, "emrapi-load")
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summaries, err := ingest.Run(ctx, pool, log, &cfg)
	if cfg.MetricsFile != "" {
		m := metrics.New()
		for _, s := range summaries {
			m.Observe(s)
		}
		if err == nil {
			m.MarkSuccess()
		}
		if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Warn().Err(werr).Str("file", cfg.MetricsFile).Msg("failed to write metrics")
		}
	}
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			switch pe.Phase {
			case "preflight":
				os.Exit(exitcode.ValidationError)
			case "stage":
				os.Exit(exitcode.CopyError)
			default:
				os.Exit(exitcode.TransformError)
			}
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.TransformError)
	}

	for _, s := range summaries {
		if s.Skipped {
			fmt.Printf("%-8s skipped: %s already loaded\n", s.Kind, s.FilePath)
			continue
		}
		fmt.Printf("%-8s %d rows staged, %d rejected (%.1fs)\n",
			s.Kind, s.RowsStaged, s.RowsRejected, s.DurationTotal.Seconds())
		for _, table := range slices.Sorted(maps.Keys(s.RowsUpserted)) {
			fmt.Printf("         %-24s %d rows upserted\n", table, s.RowsUpserted[table])
		}
	}
	return nil
}
