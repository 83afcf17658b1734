package model

import (
	"github.com/google/uuid"
)

// StagingNameRow is the normalized, DB-ready representation of one concept name.
type StagingNameRow struct {
	LoadBatchID      uuid.UUID
	DictionaryFileID int64

	SourceRowNumber int64
	SourceRowHash   []byte

	ConceptID       int32
	ConceptUUID     uuid.UUID
	ConceptNameID   int32
	ConceptNameUUID uuid.UUID
	Name            string
	NameNorm        *string
	Locale          string
	LocalePreferred bool
}

// StagingNameColumns returns the ordered column names for COPY into
// ingest.stage_concept_names.
func StagingNameColumns() []string {
	return []string{
		"load_batch_id",
		"dictionary_file_id",
		"source_row_number",
		"source_row_hash",
		"concept_id",
		"concept_uuid",
		"concept_name_id",
		"concept_name_uuid",
		"name",
		"name_norm",
		"locale",
		"locale_preferred",
	}
}

// CopyValues returns the row values in the same order as StagingNameColumns().
func (r *StagingNameRow) CopyValues() []any {
	return []any{
		r.LoadBatchID,
		r.DictionaryFileID,
		r.SourceRowNumber,
		r.SourceRowHash,
		r.ConceptID,
		r.ConceptUUID,
		r.ConceptNameID,
		r.ConceptNameUUID,
		r.Name,
		r.NameNorm,
		r.Locale,
		r.LocalePreferred,
	}
}

// StagingMapRow is the normalized, DB-ready representation of one concept map.
type StagingMapRow struct {
	LoadBatchID      uuid.UUID
	DictionaryFileID int64

	SourceRowNumber int64
	SourceRowHash   []byte

	ConceptMapID int32
	ConceptID    int32
	SourceUUID   uuid.UUID
	SourceName   string
	SourceHL7    *string
	Code         string
	CodeNorm     string
	TermName     *string
	MapTypeUUID  uuid.UUID
}

// StagingMapColumns returns the ordered column names for COPY into
// ingest.stage_concept_maps.
func StagingMapColumns() []string {
	return []string{
		"load_batch_id",
		"dictionary_file_id",
		"source_row_number",
		"source_row_hash",
		"concept_map_id",
		"concept_id",
		"source_uuid",
		"source_name",
		"source_hl7_code",
		"code",
		"code_norm",
		"term_name",
		"map_type_uuid",
	}
}

// CopyValues returns the row values in the same order as StagingMapColumns().
func (r *StagingMapRow) CopyValues() []any {
	return []any{
		r.LoadBatchID,
		r.DictionaryFileID,
		r.SourceRowNumber,
		r.SourceRowHash,
		r.ConceptMapID,
		r.ConceptID,
		r.SourceUUID,
		r.SourceName,
		r.SourceHL7,
		r.Code,
		r.CodeNorm,
		r.TermName,
		r.MapTypeUUID,
	}
}
