package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// UpsertDimensions upserts concept sources and reference terms from the
// mappings staging batch. Concept maps reference both by key.
func UpsertDimensions(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, batchID uuid.UUID) (map[string]int64, error) {
	start := time.Now()
	out := make(map[string]int64, 2)

	tag, err := pool.Exec(ctx, embedsql.UpsertSources, batchID)
	if err != nil {
		return nil, fmt.Errorf("upsert sources: %w", err)
	}
	out["concept_sources"] = tag.RowsAffected()
	log.Info().Int64("sources_upserted", tag.RowsAffected()).Msg("concept sources upserted")

	tag, err = pool.Exec(ctx, embedsql.UpsertReferenceTerms, batchID)
	if err != nil {
		return nil, fmt.Errorf("upsert reference terms: %w", err)
	}
	out["concept_reference_terms"] = tag.RowsAffected()
	log.Info().
		Int64("terms_upserted", tag.RowsAffected()).
		Dur("duration", time.Since(start)).
		Msg("reference terms upserted")

	return out, nil
}
