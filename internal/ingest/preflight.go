package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

// Dictionary file statuses recorded in ingest.dictionary_files.
const (
	StatusPending     = "pending"
	StatusStaging     = "staging"
	StatusStaged      = "staged"
	StatusTransformed = "transformed"
	StatusLoaded      = "loaded"
	StatusFailed      = "failed"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// Kind says whether the file holds concept names or concept maps.
	Kind model.DictionaryKind
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	// FileSize is the file size in bytes from os.Stat.
	FileSize int64
	// DictionaryFileID is the DB primary key of the registered file.
	DictionaryFileID int64
	// LoadBatchID tags this run's staged rows for transform and cleanup.
	LoadBatchID uuid.UUID
	// NumRows is the total row count reported by the Parquet file metadata.
	NumRows int64
	// AlreadyLoaded is true when the same kind and sha256 are already loaded
	// and force mode is off.
	AlreadyLoaded bool
}

// Preflight computes the file's SHA-256, validates its schema against kind,
// and registers it in ingest.dictionary_files.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, kind model.DictionaryKind, filePath string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	info, err := parquetread.Inspect(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	if err := parquetread.ValidateSchema(info.Schema, kind); err != nil {
		return nil, fmt.Errorf("preflight validate: %w", err)
	}

	log.Info().
		Str("kind", string(kind)).
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("rows", info.NumRows).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	fileID, alreadyLoaded, err := registerDictionaryFile(ctx, pool, kind, filePath, sha, stat.Size(), force)
	if err != nil {
		return nil, fmt.Errorf("preflight register file: %w", err)
	}

	return &PreflightResult{
		Kind:             kind,
		FilePath:         filePath,
		FileSHA256:       sha,
		FileSize:         stat.Size(),
		DictionaryFileID: fileID,
		LoadBatchID:      uuid.New(),
		NumRows:          info.NumRows,
		AlreadyLoaded:    alreadyLoaded,
	}, nil
}

func registerDictionaryFile(ctx context.Context, pool *pgxpool.Pool, kind model.DictionaryKind, filePath, sha string, fileSize int64, force bool) (int64, bool, error) {
	var fileID int64
	err := pool.QueryRow(ctx, embedsql.RegisterDictionaryFile,
		string(kind), filepath.Base(filePath), sha, fileSize,
	).Scan(&fileID)

	if errors.Is(err, pgx.ErrNoRows) {
		// Already registered (ON CONFLICT DO NOTHING returned no rows)
		var status string
		if err2 := pool.QueryRow(ctx, embedsql.LookupDictionaryFile, string(kind), sha).Scan(&fileID, &status); err2 != nil {
			return 0, false, fmt.Errorf("lookup existing dictionary file: %w", err2)
		}

		if !force && status == StatusLoaded {
			return fileID, true, nil
		}

		if err3 := UpdateStatus(ctx, pool, fileID, StatusPending); err3 != nil {
			return 0, false, fmt.Errorf("reset dictionary file status: %w", err3)
		}
		return fileID, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("register dictionary file: %w", err)
	}

	return fileID, false, nil
}

// UpdateStatus updates a dictionary file's status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, dictionaryFileID int64, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateDictionaryStatus, dictionaryFileID, status)
	return err
}
