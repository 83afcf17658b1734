package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// ApplyMigrations runs all embedded SQL migrations in filename order.
// All DDL uses IF NOT EXISTS and seed data ON CONFLICT DO NOTHING, so
// migrations are idempotent.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(embedsql.Migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		log.Debug().Str("migration", name).Msg("applying migration")
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		applied++
	}

	log.Info().Int("count", applied).Msg("all migrations applied")
	return nil
}

// SchemaStatus describes the dict and ingest schemas after migration.
type SchemaStatus struct {
	DictTables   int64
	IngestTables int64
	MapTypes     int64
	LoadedFiles  int64
}

// ReadSchemaStatus counts the tables in each schema, the seeded map types and
// the dictionary files already loaded.
func ReadSchemaStatus(ctx context.Context, pool *pgxpool.Pool) (SchemaStatus, error) {
	var s SchemaStatus
	err := pool.QueryRow(ctx, embedsql.SchemaStatus).Scan(&s.DictTables, &s.IngestTables, &s.MapTypes, &s.LoadedFiles)
	if err != nil {
		return s, fmt.Errorf("read schema status: %w", err)
	}
	return s, nil
}
