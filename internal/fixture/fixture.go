// Package fixture provides a small, deterministic concept dictionary used by
// tests and by cmd/mkfixture.
package fixture

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// File names written by Write.
const (
	NamesFile    = "concept_names.parquet"
	MappingsFile = "concept_maps.parquet"
)

// Source names used by the sample mappings.
const (
	ICD10  = "ICD-10-WHO"
	SNOMED = "SNOMED CT"
)

// Concept ids in the sample dictionary.
const (
	MyocardialInfarction = 100
	Malaria              = 200
	Asthma               = 300
)

// Concept name ids in the sample dictionary.
const (
	MIEnglish   = 1001
	MIFrench    = 1002
	MIShorthand = 1003
	JungleFever = 2003
)

var namespace = uuid.MustParse("6f1c3a52-1f0e-4c4e-9a55-3b8f0f1f9e10")

// UUID derives a stable UUID for a dictionary object.
func UUID(kind string, id int) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s-%d", kind, id)))
}

// SourceUUID derives a stable UUID for a concept source.
func SourceUUID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("source-"+name))
}

func nameRow(conceptID, nameID int32, name, locale string, preferred bool) model.ConceptNameRow {
	return model.ConceptNameRow{
		ConceptID:       conceptID,
		ConceptUUID:     UUID("concept", int(conceptID)).String(),
		ConceptNameID:   nameID,
		ConceptNameUUID: UUID("name", int(nameID)).String(),
		Name:            name,
		Locale:          locale,
		LocalePreferred: preferred,
	}
}

func mapRow(mapID, conceptID int32, source, code string, mapType uuid.UUID) model.ConceptMapRow {
	return model.ConceptMapRow{
		ConceptMapID: mapID,
		ConceptID:    conceptID,
		SourceUUID:   SourceUUID(source).String(),
		SourceName:   source,
		Code:         code,
		MapTypeUUID:  mapType.String(),
	}
}

// Names returns the sample concept names.
func Names() []model.ConceptNameRow {
	return []model.ConceptNameRow{
		nameRow(MyocardialInfarction, MIEnglish, "Myocardial Infarction", "en", true),
		nameRow(MyocardialInfarction, MIFrench, "Infarctus du myocarde", "fr", true),
		nameRow(MyocardialInfarction, MIShorthand, "MI", "en", false),
		nameRow(Malaria, 2001, "Malaria", "en", true),
		nameRow(Malaria, 2002, "Paludisme", "fr", true),
		nameRow(Malaria, JungleFever, "Jungle fever", "en", false),
		nameRow(Asthma, 3001, "Asthma", "en", true),
	}
}

// Mappings returns the sample concept maps in stored order.
func Mappings() []model.ConceptMapRow {
	return []model.ConceptMapRow{
		mapRow(1, MyocardialInfarction, ICD10, "I21.9", model.NarrowerThanMapTypeUUID),
		mapRow(2, MyocardialInfarction, ICD10, "I21", model.SameAsMapTypeUUID),
		mapRow(3, MyocardialInfarction, SNOMED, "22298006", model.SameAsMapTypeUUID),
		mapRow(4, Malaria, ICD10, "B54", model.SameAsMapTypeUUID),
		mapRow(5, Asthma, ICD10, "J45", model.NarrowerThanMapTypeUUID),
		mapRow(6, Asthma, ICD10, "J45.9", model.NarrowerThanMapTypeUUID),
		mapRow(7, Asthma, SNOMED, "195967001", model.BroaderThanMapTypeUUID),
	}
}

// Write writes the sample dictionary into dir and returns the paths of the
// names and mappings files.
func Write(dir string) (namesPath, mappingsPath string, err error) {
	namesPath = filepath.Join(dir, NamesFile)
	mappingsPath = filepath.Join(dir, MappingsFile)
	if err := parquet.WriteFile(namesPath, Names()); err != nil {
		return "", "", fmt.Errorf("write names fixture: %w", err)
	}
	if err := parquet.WriteFile(mappingsPath, Mappings()); err != nil {
		return "", "", fmt.Errorf("write mappings fixture: %w", err)
	}
	return namesPath, mappingsPath, nil
}
