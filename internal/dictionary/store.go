package dictionary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdegraft/openmrs-module-emrapi/internal/diagnosis"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
	embedsql "github.com/jdegraft/openmrs-module-emrapi/internal/sql"
)

var (
	_ diagnosis.ConceptService = (*Memory)(nil)
	_ diagnosis.ConceptService = (*Store)(nil)
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads concepts from the dict schema. Every lookup loads the concept
// with all its names and mappings.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetConcept returns the concept with the given id.
func (s *Store) GetConcept(ctx context.Context, id int) (*model.Concept, error) {
	return loadConcept(ctx, s.pool, id)
}

// GetConceptName returns the concept name with the given id. The name's
// Concept is fully loaded.
func (s *Store) GetConceptName(ctx context.Context, id int) (*model.ConceptName, error) {
	var conceptID int32
	err := s.pool.QueryRow(ctx, embedsql.GetConceptNameOwner, id).Scan(&conceptID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("concept name %d: %w", id, ErrConceptNameNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup concept name %d: %w", id, err)
	}

	c, err := loadConcept(ctx, s.pool, int(conceptID))
	if err != nil {
		return nil, err
	}
	n := c.NameByID(id)
	if n == nil {
		return nil, fmt.Errorf("concept name %d: %w", id, ErrConceptNameNotFound)
	}
	return n, nil
}

// SourcesByName resolves source names in the given order.
func (s *Store) SourcesByName(ctx context.Context, names []string) ([]*model.ConceptSource, error) {
	rows, err := s.pool.Query(ctx, embedsql.SourcesByName, names)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*model.ConceptSource)
	for rows.Next() {
		var src model.ConceptSource
		var hl7 *string
		if err := rows.Scan(&src.UUID, &src.Name, &hl7); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		if hl7 != nil {
			src.HL7Code = *hl7
		}
		byName[src.Name] = &src
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	out := make([]*model.ConceptSource, 0, len(names))
	for _, name := range names {
		src, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("source %q: %w", name, ErrSourceNotFound)
		}
		out = append(out, src)
	}
	return out, nil
}

func loadConcept(ctx context.Context, q queryable, id int) (*model.Concept, error) {
	var conceptID int32
	c := &model.Concept{}
	err := q.QueryRow(ctx, embedsql.GetConcept, id).Scan(&conceptID, &c.UUID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("concept %d: %w", id, ErrConceptNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup concept %d: %w", id, err)
	}
	c.ID = int(conceptID)

	if err := loadNames(ctx, q, c); err != nil {
		return nil, err
	}
	if err := loadMappings(ctx, q, c); err != nil {
		return nil, err
	}
	return c, nil
}

func loadNames(ctx context.Context, q queryable, c *model.Concept) error {
	rows, err := q.Query(ctx, embedsql.ConceptNamesByConcept, c.ID)
	if err != nil {
		return fmt.Errorf("query names of concept %d: %w", c.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     int32
			n      model.ConceptName
			locale string
		)
		if err := rows.Scan(&id, &n.UUID, &n.Name, &locale, &n.LocalePreferred); err != nil {
			return fmt.Errorf("scan name of concept %d: %w", c.ID, err)
		}
		n.ID = int(id)
		if n.Locale, err = normalize.ParseLocale(locale); err != nil {
			return fmt.Errorf("concept name %d: %w", n.ID, err)
		}
		c.AddName(&n)
	}
	return rows.Err()
}

func loadMappings(ctx context.Context, q queryable, c *model.Concept) error {
	rows, err := q.Query(ctx, embedsql.ConceptMapsByConcept, c.ID)
	if err != nil {
		return fmt.Errorf("query mappings of concept %d: %w", c.ID, err)
	}
	defer rows.Close()

	// Mappings of one concept share source and map type objects.
	sources := make(map[uuid.UUID]*model.ConceptSource)
	mapTypes := make(map[uuid.UUID]*model.ConceptMapType)
	for rows.Next() {
		var (
			mapID       int32
			code        string
			termName    *string
			sourceUUID  uuid.UUID
			sourceName  string
			hl7         *string
			mapTypeUUID uuid.UUID
			mapTypeName *string
		)
		if err := rows.Scan(&mapID, &code, &termName, &sourceUUID, &sourceName, &hl7, &mapTypeUUID, &mapTypeName); err != nil {
			return fmt.Errorf("scan mapping of concept %d: %w", c.ID, err)
		}

		src, ok := sources[sourceUUID]
		if !ok {
			src = &model.ConceptSource{UUID: sourceUUID, Name: sourceName}
			if hl7 != nil {
				src.HL7Code = *hl7
			}
			sources[sourceUUID] = src
		}
		mt, ok := mapTypes[mapTypeUUID]
		if !ok {
			mt = &model.ConceptMapType{UUID: mapTypeUUID}
			if mapTypeName != nil {
				mt.Name = *mapTypeName
			}
			mapTypes[mapTypeUUID] = mt
		}

		term := &model.ConceptReferenceTerm{Source: src, Code: code}
		if termName != nil {
			term.Name = *termName
		}
		c.AddMapping(&model.ConceptMap{ID: int(mapID), Term: term, MapType: mt})
	}
	return rows.Err()
}
