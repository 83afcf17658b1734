// Package dictionary resolves concepts and concept names by id. Memory holds a
// dictionary built from Parquet dictionary files; Store reads the dict schema
// in Postgres.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
	"github.com/jdegraft/openmrs-module-emrapi/internal/parquetread"
)

var (
	ErrConceptNotFound     = errors.New("concept not found")
	ErrConceptNameNotFound = errors.New("concept name not found")
	ErrSourceNotFound      = errors.New("concept source not found")
)

// Memory is an in-memory dictionary. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	concepts map[int]*model.Concept
	names    map[int]*model.ConceptName
	sources  map[string]*model.ConceptSource // by name
}

// NewMemory returns an empty in-memory dictionary.
func NewMemory() *Memory {
	return &Memory{
		concepts: make(map[int]*model.Concept),
		names:    make(map[int]*model.ConceptName),
		sources:  make(map[string]*model.ConceptSource),
	}
}

// Add registers c, its names and the sources of its mappings.
func (m *Memory) Add(c *model.Concept) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.concepts[c.ID]; ok {
		return fmt.Errorf("duplicate concept id %d", c.ID)
	}
	for _, n := range c.Names {
		if _, ok := m.names[n.ID]; ok {
			return fmt.Errorf("duplicate concept name id %d", n.ID)
		}
	}
	m.concepts[c.ID] = c
	for _, n := range c.Names {
		m.names[n.ID] = n
	}
	for _, cm := range c.Mappings {
		if cm.Term != nil && cm.Term.Source != nil {
			m.sources[cm.Term.Source.Name] = cm.Term.Source
		}
	}
	return nil
}

// GetConcept returns the concept with the given id.
func (m *Memory) GetConcept(_ context.Context, id int) (*model.Concept, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.concepts[id]
	if !ok {
		return nil, fmt.Errorf("concept %d: %w", id, ErrConceptNotFound)
	}
	return c, nil
}

// GetConceptName returns the concept name with the given id.
func (m *Memory) GetConceptName(_ context.Context, id int) (*model.ConceptName, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.names[id]
	if !ok {
		return nil, fmt.Errorf("concept name %d: %w", id, ErrConceptNameNotFound)
	}
	return n, nil
}

// SourcesByName resolves source names in the given order.
func (m *Memory) SourcesByName(_ context.Context, names []string) ([]*model.ConceptSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.ConceptSource, 0, len(names))
	for _, name := range names {
		s, ok := m.sources[name]
		if !ok {
			return nil, fmt.Errorf("source %q: %w", name, ErrSourceNotFound)
		}
		out = append(out, s)
	}
	return out, nil
}

// Count returns the number of concepts and concept names held.
func (m *Memory) Count() (concepts, names int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.concepts), len(m.names)
}

// LoadFiles builds a Memory from a names file and an optional mappings file.
func LoadFiles(namesPath, mappingsPath string) (*Memory, error) {
	names, err := parquetread.ReadAll[model.ConceptNameRow](namesPath)
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	var maps []model.ConceptMapRow
	if mappingsPath != "" {
		maps, err = parquetread.ReadAll[model.ConceptMapRow](mappingsPath)
		if err != nil {
			return nil, fmt.Errorf("read mappings: %w", err)
		}
	}
	return Build(names, maps)
}

// Build assembles concepts from dictionary rows. Rows are validated the way
// the Postgres loader validates them. Mappings are kept in concept map id
// order and a repeated concept map id keeps its last row. Mappings for
// unknown concepts are an error.
func Build(names []model.ConceptNameRow, maps []model.ConceptMapRow) (*Memory, error) {
	concepts := make(map[int32]*model.Concept)
	for i := range names {
		row, err := normalize.ToStagingNameRow(&names[i], uuid.Nil, 0, int64(i+1))
		if err != nil {
			return nil, fmt.Errorf("names row %d: %w", i+1, err)
		}
		c, ok := concepts[row.ConceptID]
		if !ok {
			c = &model.Concept{ID: int(row.ConceptID), UUID: row.ConceptUUID}
			concepts[row.ConceptID] = c
		}
		locale, err := normalize.ParseLocale(row.Locale)
		if err != nil {
			return nil, fmt.Errorf("names row %d: %w", i+1, err)
		}
		c.AddName(&model.ConceptName{
			ID:              int(row.ConceptNameID),
			UUID:            row.ConceptNameUUID,
			Name:            row.Name,
			Locale:          locale,
			LocalePreferred: row.LocalePreferred,
		})
	}

	latest := make(map[int32]*model.StagingMapRow)
	sources := make(map[uuid.UUID]*model.ConceptSource)
	for i := range maps {
		row, err := normalize.ToStagingMapRow(&maps[i], uuid.Nil, 0, int64(i+1))
		if err != nil {
			return nil, fmt.Errorf("mappings row %d: %w", i+1, err)
		}
		if _, ok := concepts[row.ConceptID]; !ok {
			return nil, fmt.Errorf("mappings row %d: concept %d: %w", i+1, row.ConceptID, ErrConceptNotFound)
		}
		latest[row.ConceptMapID] = row

		// The last row naming a source decides its name and HL7 code.
		source, ok := sources[row.SourceUUID]
		if !ok {
			source = &model.ConceptSource{UUID: row.SourceUUID}
			sources[row.SourceUUID] = source
		}
		source.Name = row.SourceName
		source.HL7Code = ""
		if row.SourceHL7 != nil {
			source.HL7Code = *row.SourceHL7
		}
	}
	mapIDs := make([]int, 0, len(latest))
	for id := range latest {
		mapIDs = append(mapIDs, int(id))
	}
	sort.Ints(mapIDs)

	mapTypes := make(map[uuid.UUID]*model.ConceptMapType)
	for _, id := range mapIDs {
		row := latest[int32(id)]
		source := sources[row.SourceUUID]
		mapType, ok := mapTypes[row.MapTypeUUID]
		if !ok {
			mapType = &model.ConceptMapType{UUID: row.MapTypeUUID}
			if known, found := model.MapTypeByUUID(row.MapTypeUUID); found {
				mapType.Name = known.Name
			}
			mapTypes[row.MapTypeUUID] = mapType
		}

		term := &model.ConceptReferenceTerm{Source: source, Code: row.Code}
		if row.TermName != nil {
			term.Name = *row.TermName
		}
		concepts[row.ConceptID].AddMapping(&model.ConceptMap{ID: id, Term: term, MapType: mapType})
	}

	ids := make([]int, 0, len(concepts))
	for id := range concepts {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	m := NewMemory()
	for _, id := range ids {
		if err := m.Add(concepts[int32(id)]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
