package model

// DictionaryKind names the two kinds of dictionary files.
type DictionaryKind string

const (
	KindNames    DictionaryKind = "names"
	KindMappings DictionaryKind = "mappings"
)

// ConceptNameRow mirrors the Parquet schema of a names dictionary file:
// one row per concept name. UUIDs and locales are strings in the file and
// are parsed during normalization.
type ConceptNameRow struct {
	ConceptID       int32  `parquet:"concept_id"`
	ConceptUUID     string `parquet:"concept_uuid"`
	ConceptNameID   int32  `parquet:"concept_name_id"`
	ConceptNameUUID string `parquet:"concept_name_uuid"`
	Name            string `parquet:"name"`
	Locale          string `parquet:"locale"`
	LocalePreferred bool   `parquet:"locale_preferred"`
}

// ConceptMapRow mirrors the Parquet schema of a mappings dictionary file:
// one row per concept map, in stored order.
type ConceptMapRow struct {
	ConceptMapID int32   `parquet:"concept_map_id"`
	ConceptID    int32   `parquet:"concept_id"`
	SourceUUID   string  `parquet:"source_uuid"`
	SourceName   string  `parquet:"source_name"`
	SourceHL7    *string `parquet:"source_hl7_code,optional"`
	Code         string  `parquet:"code"`
	TermName     *string `parquet:"term_name,optional"`
	MapTypeUUID  string  `parquet:"map_type_uuid"`
}

// RequiredColumns returns the Parquet columns a file of this kind must carry.
func (k DictionaryKind) RequiredColumns() []string {
	switch k {
	case KindNames:
		return []string{"concept_id", "concept_uuid", "concept_name_id", "concept_name_uuid", "name", "locale", "locale_preferred"}
	case KindMappings:
		return []string{"concept_map_id", "concept_id", "source_uuid", "source_name", "code", "map_type_uuid"}
	}
	return nil
}
