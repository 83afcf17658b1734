package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// Finalize marks the dictionary file loaded and runs ANALYZE on the dict tables.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, dictionaryFileID int64) (time.Duration, error) {
	start := time.Now()

	if err := UpdateStatus(ctx, pool, dictionaryFileID, StatusLoaded); err != nil {
		return 0, fmt.Errorf("update status to loaded: %w", err)
	}
	log.Info().Int64("dictionary_file_id", dictionaryFileID).Msg("dictionary file loaded")

	if _, err := pool.Exec(ctx, embedsql.AnalyzeDictionary); err != nil {
		return 0, fmt.Errorf("analyze dictionary: %w", err)
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
