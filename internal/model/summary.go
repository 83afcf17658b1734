package model

import "time"

// LoadSummary captures metrics from loading a single dictionary file.
type LoadSummary struct {
	Kind              DictionaryKind
	FilePath          string
	FileSHA256        string
	DictionaryFileID  int64
	LoadBatchID       string
	Skipped           bool
	RowsRead          int64
	RowsStaged        int64
	RowsRejected      int64
	RowsUpserted      map[string]int64
	DurationStage     time.Duration
	DurationTransform time.Duration
	DurationFinalize  time.Duration
	DurationTotal     time.Duration
}
