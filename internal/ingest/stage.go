package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jdegraft/openmrs-module-emrapi/internal/db"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
)

const readBatchSize = 1024

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsRead     int64
	RowsStaged   int64
	RowsRejected int64
	Duration     time.Duration
}

// Stage streams rows from the dictionary file, normalizes them, and COPY-loads
// them into the staging table for the file's kind.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) (*StageResult, error) {
	switch pf.Kind {
	case model.KindNames:
		return stageRows(ctx, pool, log, pf,
			pgx.Identifier{"ingest", "stage_concept_names"},
			model.StagingNameColumns(),
			normalize.ToStagingNameRow)
	case model.KindMappings:
		return stageRows(ctx, pool, log, pf,
			pgx.Identifier{"ingest", "stage_concept_maps"},
			model.StagingMapColumns(),
			normalize.ToStagingMapRow)
	}
	return nil, fmt.Errorf("stage: unknown dictionary kind %q", pf.Kind)
}

// stageRows reads Parquet rows of type R, converts them to staging rows of
// type S and COPYs them into table through a channel-backed CopyFromSource.
func stageRows[R any, S db.CopyRow](
	ctx context.Context,
	pool *pgxpool.Pool,
	log zerolog.Logger,
	pf *PreflightResult,
	table pgx.Identifier,
	columns []string,
	convert func(*R, uuid.UUID, int64, int64) (S, error),
) (*StageResult, error) {
	start := time.Now()

	reader, err := parquetread.Open[R](pf.FilePath)
	if err != nil {
		return nil, fmt.Errorf("stage open: %w", err)
	}
	defer reader.Close()

	ch := make(chan S, readBatchSize)
	errCh := make(chan error, 1)

	var rowsRead, rowsRejected int64

	// Producer goroutine: read Parquet → normalize → push to channel
	go func() {
		defer close(ch)
		buf := make([]R, readBatchSize)
		var rowNum int64

		for {
			n, readErr := reader.Read(buf)
			for i := 0; i < n; i++ {
				rowNum++
				rowsRead++

				staging, normErr := convert(&buf[i], pf.LoadBatchID, pf.DictionaryFileID, rowNum)
				if normErr != nil {
					rowsRejected++
					log.Warn().Err(normErr).Int64("row", rowNum).Msg("row rejected")
					continue
				}

				select {
				case ch <- staging:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				errCh <- fmt.Errorf("read parquet at row %d: %w", rowNum, readErr)
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: COPY from channel into staging table
	source := db.NewChannelSource(ch)
	rowsStaged, err := pool.CopyFrom(ctx, table, columns, source)

	// Drain so the producer can finish if COPY stopped early.
	if err != nil {
		for range ch {
		}
	}
	prodErr := <-errCh
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Str("kind", string(pf.Kind)).
		Int64("rows_read", rowsRead).
		Int64("rows_staged", rowsStaged).
		Int64("rows_rejected", rowsRejected).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsStaged)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsRead:     rowsRead,
		RowsStaged:   rowsStaged,
		RowsRejected: rowsRejected,
		Duration:     dur,
	}, nil
}
