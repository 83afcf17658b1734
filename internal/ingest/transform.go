package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// TransformResult holds metrics from the staging → dict transformation.
type TransformResult struct {
	// Upserted counts affected rows per dict table.
	Upserted map[string]int64
	Duration time.Duration
}

// Transform moves the staged batch into the dict tables. Names files upsert
// concepts and concept names. Mappings files upsert sources and reference
// terms first, then the concept maps that join them.
func Transform(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) (*TransformResult, error) {
	start := time.Now()
	upserted := make(map[string]int64)

	switch pf.Kind {
	case model.KindNames:
		tag, err := pool.Exec(ctx, embedsql.UpsertConcepts, pf.LoadBatchID)
		if err != nil {
			return nil, fmt.Errorf("upsert concepts: %w", err)
		}
		upserted["concepts"] = tag.RowsAffected()

		tag, err = pool.Exec(ctx, embedsql.UpsertConceptNames, pf.LoadBatchID)
		if err != nil {
			return nil, fmt.Errorf("upsert concept names: %w", err)
		}
		upserted["concept_names"] = tag.RowsAffected()

	case model.KindMappings:
		dims, err := UpsertDimensions(ctx, pool, log, pf.LoadBatchID)
		if err != nil {
			return nil, err
		}
		for table, n := range dims {
			upserted[table] = n
		}

		tag, err := pool.Exec(ctx, embedsql.UpsertConceptMaps, pf.LoadBatchID)
		if err != nil {
			return nil, fmt.Errorf("upsert concept maps: %w", err)
		}
		upserted["concept_maps"] = tag.RowsAffected()

	default:
		return nil, fmt.Errorf("transform: unknown dictionary kind %q", pf.Kind)
	}

	dur := time.Since(start)
	ev := log.Info().Str("kind", string(pf.Kind))
	for table, n := range upserted {
		ev = ev.Int64(table, n)
	}
	ev.Str("duration", dur.String()).Msg("transform complete")

	return &TransformResult{
		Upserted: upserted,
		Duration: dur,
	}, nil
}
