package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jdegraft/openmrs-module-emrapi/internal/exitcode"
	"github.com/jdegraft/openmrs-module-emrapi/internal/logging"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.NamesPath, "names", "", "Path to concept names Parquet file")
	f.StringVar(&cfg.MappingsPath, "mappings", "", "Path to concept maps Parquet file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	fmt.Println("=== emrapi plan ===")
	if cfg.NamesPath != "" {
		if err := planFile(model.KindNames, cfg.NamesPath); err != nil {
			log.Error().Err(err).Str("file", cfg.NamesPath).Msg("plan failed")
			os.Exit(exitcode.ValidationError)
		}
	}
	if cfg.MappingsPath != "" {
		if err := planFile(model.KindMappings, cfg.MappingsPath); err != nil {
			log.Error().Err(err).Str("file", cfg.MappingsPath).Msg("plan failed")
			os.Exit(exitcode.ValidationError)
		}
	}
	fmt.Println("Schema validation: OK")
	return nil
}

func planFile(kind model.DictionaryKind, path string) error {
	sha, err := normalize.FileHash(path)
	if err != nil {
		return fmt.Errorf("hash file: %w", err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	info, err := parquetread.Inspect(path)
	if err != nil {
		return err
	}
	if err := parquetread.ValidateSchema(info.Schema, kind); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Kind:       %s\n", kind)
	fmt.Printf("File:       %s\n", path)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Size:       %d bytes\n", stat.Size())
	fmt.Printf("Total rows: %d\n", info.NumRows)

	var (
		rejected int64
		concepts = make(map[int32]bool)
		buckets  = make(map[string]int64)
		label    string
	)
	switch kind {
	case model.KindNames:
		rows, err := parquetread.ReadAll[model.ConceptNameRow](path)
		if err != nil {
			return err
		}
		label = "Names by locale"
		for i := range rows {
			staged, err := normalize.ToStagingNameRow(&rows[i], uuid.Nil, 0, int64(i+1))
			if err != nil {
				rejected++
				continue
			}
			concepts[staged.ConceptID] = true
			buckets[staged.Locale]++
		}
	case model.KindMappings:
		rows, err := parquetread.ReadAll[model.ConceptMapRow](path)
		if err != nil {
			return err
		}
		label = "Mappings by source and map type"
		for i := range rows {
			staged, err := normalize.ToStagingMapRow(&rows[i], uuid.Nil, 0, int64(i+1))
			if err != nil {
				rejected++
				continue
			}
			concepts[staged.ConceptID] = true
			mapType := staged.MapTypeUUID.String()
			if mt, ok := model.MapTypeByUUID(staged.MapTypeUUID); ok {
				mapType = mt.Name
			}
			buckets[staged.SourceName+" / "+mapType]++
		}
	}

	fmt.Printf("Concepts:   %d\n", len(concepts))
	fmt.Printf("Rejected:   %d rows\n", rejected)
	fmt.Printf("%s:\n", label)
	for _, key := range slices.Sorted(maps.Keys(buckets)) {
		fmt.Printf("  %-40s %d\n", key, buckets[key])
	}
	return nil
}
