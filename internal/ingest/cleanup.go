package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// Cleanup deletes staging rows for the given batch.
func Cleanup(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, kind model.DictionaryKind, batchID uuid.UUID) error {
	start := time.Now()

	query := embedsql.DeleteStagingNames
	if kind == model.KindMappings {
		query = embedsql.DeleteStagingMaps
	}
	tag, err := pool.Exec(ctx, query, batchID)
	if err != nil {
		return fmt.Errorf("delete staging %s: %w", kind, err)
	}

	log.Info().
		Str("kind", string(kind)).
		Int64("rows_deleted", tag.RowsAffected()).
		Dur("duration", time.Since(start)).
		Msg("staging cleanup complete")

	return nil
}
