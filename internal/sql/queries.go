package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_dictionary_file.sql
var RegisterDictionaryFile string

//go:embed queries/lookup_dictionary_file.sql
var LookupDictionaryFile string

//go:embed queries/update_dictionary_status.sql
var UpdateDictionaryStatus string

//go:embed queries/upsert_concepts.sql
var UpsertConcepts string

//go:embed queries/upsert_concept_names.sql
var UpsertConceptNames string

//go:embed queries/upsert_sources.sql
var UpsertSources string

//go:embed queries/upsert_reference_terms.sql
var UpsertReferenceTerms string

//go:embed queries/upsert_concept_maps.sql
var UpsertConceptMaps string

//go:embed queries/delete_staging_names.sql
var DeleteStagingNames string

//go:embed queries/delete_staging_maps.sql
var DeleteStagingMaps string

//go:embed queries/analyze_dictionary.sql
var AnalyzeDictionary string

//go:embed queries/get_concept.sql
var GetConcept string

//go:embed queries/get_concept_name_owner.sql
var GetConceptNameOwner string

//go:embed queries/concept_names_by_concept.sql
var ConceptNamesByConcept string

//go:embed queries/concept_maps_by_concept.sql
var ConceptMapsByConcept string

//go:embed queries/sources_by_name.sql
var SourcesByName string

//go:embed queries/schema_status.sql
var SchemaStatus string
