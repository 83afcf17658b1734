package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jdegraft/openmrs-module-emrapi/internal/config"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run loads the configured dictionary files. The names file is loaded before
// the mappings file, since concept maps only attach to known concepts.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) ([]*model.LoadSummary, error) {
	var summaries []*model.LoadSummary
	files := []struct {
		kind model.DictionaryKind
		path string
	}{
		{model.KindNames, cfg.NamesPath},
		{model.KindMappings, cfg.MappingsPath},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		summary, err := RunFile(ctx, pool, log.With().Str("kind", string(f.kind)).Logger(), f.kind, f.path, cfg)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// RunFile executes the load pipeline for one dictionary file:
// preflight → stage → transform → finalize → cleanup.
func RunFile(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, kind model.DictionaryKind, filePath string, cfg *config.Config) (*model.LoadSummary, error) {
	totalStart := time.Now()

	// Phase 1: Preflight
	log.Info().Str("file", filePath).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, kind, filePath, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Int64("dictionary_file_id", pf.DictionaryFileID).
			Str("sha256", pf.FileSHA256).
			Msg("file already loaded, skipping (use --force to reload)")
		return &model.LoadSummary{
			Kind:             kind,
			FilePath:         pf.FilePath,
			FileSHA256:       pf.FileSHA256,
			DictionaryFileID: pf.DictionaryFileID,
			LoadBatchID:      pf.LoadBatchID.String(),
			Skipped:          true,
			DurationTotal:    time.Since(totalStart),
		}, nil
	}

	// Phase 2: Stage
	log.Info().Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusStaging); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	stageResult, err := Stage(ctx, pool, log, pf)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusFailed)
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	if err := UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusStaged); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Transform
	log.Info().Msg("starting transform")
	transformResult, err := Transform(ctx, pool, log, pf)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusFailed)
		return nil, &PipelineError{Phase: "transform", Err: err}
	}

	if err := UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusTransformed); err != nil {
		return nil, &PipelineError{Phase: "transform", Err: err}
	}

	// Phase 4: Finalize
	log.Info().Msg("finalizing")
	finalizeDur, err := Finalize(ctx, pool, log, pf.DictionaryFileID)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.DictionaryFileID, StatusFailed)
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	// Phase 5: Cleanup staging
	if !cfg.KeepStaging {
		log.Info().Msg("cleaning up staging")
		if err := Cleanup(ctx, pool, log, kind, pf.LoadBatchID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}

	summary := &model.LoadSummary{
		Kind:              kind,
		FilePath:          pf.FilePath,
		FileSHA256:        pf.FileSHA256,
		DictionaryFileID:  pf.DictionaryFileID,
		LoadBatchID:       pf.LoadBatchID.String(),
		RowsRead:          stageResult.RowsRead,
		RowsStaged:        stageResult.RowsStaged,
		RowsRejected:      stageResult.RowsRejected,
		RowsUpserted:      transformResult.Upserted,
		DurationStage:     stageResult.Duration,
		DurationTransform: transformResult.Duration,
		DurationFinalize:  finalizeDur,
		DurationTotal:     time.Since(totalStart),
	}

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_staged", summary.RowsStaged).
		Int64("rows_rejected", summary.RowsRejected).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}
