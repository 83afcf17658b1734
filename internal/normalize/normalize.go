package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// ToStagingNameRow converts a Parquet-read ConceptNameRow into a normalized
// StagingNameRow. Rows with malformed UUIDs, locales or blank names are rejected.
func ToStagingNameRow(row *model.ConceptNameRow, batchID uuid.UUID, dictionaryFileID int64, rowNum int64) (*model.StagingNameRow, error) {
	conceptUUID, err := ParseUUID("concept_uuid", row.ConceptUUID)
	if err != nil {
		return nil, err
	}
	nameUUID, err := ParseUUID("concept_name_uuid", row.ConceptNameUUID)
	if err != nil {
		return nil, err
	}
	locale, err := ParseLocale(row.Locale)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, fmt.Errorf("concept name %d has no text", row.ConceptNameID)
	}

	return &model.StagingNameRow{
		LoadBatchID:      batchID,
		DictionaryFileID: dictionaryFileID,
		SourceRowNumber:  rowNum,
		SourceRowHash: RowHash(rowNum,
			strconv.Itoa(int(row.ConceptNameID)),
			strconv.Itoa(int(row.ConceptID)),
			name,
			locale.String(),
		),

		ConceptID:       row.ConceptID,
		ConceptUUID:     conceptUUID,
		ConceptNameID:   row.ConceptNameID,
		ConceptNameUUID: nameUUID,
		Name:            name,
		NameNorm:        NormalizeName(name),
		Locale:          locale.String(),
		LocalePreferred: row.LocalePreferred,
	}, nil
}

// ToStagingMapRow converts a Parquet-read ConceptMapRow into a normalized
// StagingMapRow. Rows with malformed UUIDs or blank codes are rejected.
func ToStagingMapRow(row *model.ConceptMapRow, batchID uuid.UUID, dictionaryFileID int64, rowNum int64) (*model.StagingMapRow, error) {
	sourceUUID, err := ParseUUID("source_uuid", row.SourceUUID)
	if err != nil {
		return nil, err
	}
	mapTypeUUID, err := ParseUUID("map_type_uuid", row.MapTypeUUID)
	if err != nil {
		return nil, err
	}
	code := TrimCode(row.Code)
	if code == nil {
		return nil, fmt.Errorf("concept map %d has no code", row.ConceptMapID)
	}
	sourceName := strings.TrimSpace(row.SourceName)
	if sourceName == "" {
		return nil, fmt.Errorf("concept map %d has no source name", row.ConceptMapID)
	}

	return &model.StagingMapRow{
		LoadBatchID:      batchID,
		DictionaryFileID: dictionaryFileID,
		SourceRowNumber:  rowNum,
		SourceRowHash: RowHash(rowNum,
			strconv.Itoa(int(row.ConceptMapID)),
			strconv.Itoa(int(row.ConceptID)),
			sourceUUID.String(),
			*code,
			mapTypeUUID.String(),
		),

		ConceptMapID: row.ConceptMapID,
		ConceptID:    row.ConceptID,
		SourceUUID:   sourceUUID,
		SourceName:   sourceName,
		SourceHL7:    OptString(row.SourceHL7),
		Code:         *code,
		CodeNorm:     *NormalizeCode(*code),
		TermName:     OptString(row.TermName),
		MapTypeUUID:  mapTypeUUID,
	}, nil
}

// ParseUUID parses a UUID column value, naming the column in the error.
func ParseUUID(column, v string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(v))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", column, v, err)
	}
	return id, nil
}
