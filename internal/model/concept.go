package model

import (
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// ConceptSource is an external terminology system a concept can be mapped into,
// e.g. ICD-10-WHO or SNOMED CT.
type ConceptSource struct {
	UUID    uuid.UUID
	Name    string
	HL7Code string
}

// Equal reports whether s and o refer to the same source.
func (s *ConceptSource) Equal(o *ConceptSource) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s == o || (s.UUID != uuid.Nil && s.UUID == o.UUID)
}

// ConceptReferenceTerm is a single code within a ConceptSource.
type ConceptReferenceTerm struct {
	Source *ConceptSource
	Code   string
	Name   string
}

// ConceptMapType classifies how a concept relates to a reference term.
type ConceptMapType struct {
	UUID uuid.UUID
	Name string
}

// Equal reports whether t and o are the same map type.
func (t *ConceptMapType) Equal(o *ConceptMapType) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t == o || (t.UUID != uuid.Nil && t.UUID == o.UUID)
}

// ConceptMap links a concept to a reference term in an external source.
type ConceptMap struct {
	ID      int
	Term    *ConceptReferenceTerm
	MapType *ConceptMapType
}

// ConceptName is one name of a concept in one locale.
type ConceptName struct {
	ID              int
	UUID            uuid.UUID
	Concept         *Concept
	Name            string
	Locale          language.Tag
	LocalePreferred bool
}

// Equal reports whether n and o refer to the same concept name. Names compare
// by identity: the same pointer or the same non-nil UUID.
func (n *ConceptName) Equal(o *ConceptName) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n == o || (n.UUID != uuid.Nil && n.UUID == o.UUID)
}

// Concept is a coded clinical term with localized names and external mappings.
type Concept struct {
	ID       int
	UUID     uuid.UUID
	Names    []*ConceptName
	Mappings []*ConceptMap
}

// Equal reports whether c and o refer to the same concept.
func (c *Concept) Equal(o *Concept) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c == o || (c.UUID != uuid.Nil && c.UUID == o.UUID)
}

// AddName appends n to the concept's names and points n back at c.
func (c *Concept) AddName(n *ConceptName) {
	n.Concept = c
	c.Names = append(c.Names, n)
}

// AddMapping appends m to the concept's mappings, preserving stored order.
func (c *Concept) AddMapping(m *ConceptMap) {
	c.Mappings = append(c.Mappings, m)
}

// ConceptMappings returns the concept's mappings in stored order.
func (c *Concept) ConceptMappings() []*ConceptMap {
	return c.Mappings
}

// PreferredName returns the locale-preferred name for locale. An exact locale
// match wins over a name that only shares the base language. Returns nil when
// the concept has no preferred name for either.
func (c *Concept) PreferredName(locale language.Tag) *ConceptName {
	var fallback *ConceptName
	base, _ := locale.Base()
	for _, n := range c.Names {
		if !n.LocalePreferred {
			continue
		}
		if SameLocale(n.Locale, locale) {
			return n
		}
		if fallback == nil {
			if b, _ := n.Locale.Base(); b == base {
				fallback = n
			}
		}
	}
	return fallback
}

// NameByID returns the concept's name with the given id, or nil.
func (c *Concept) NameByID(id int) *ConceptName {
	for _, n := range c.Names {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// SameLocale reports whether a and b are exactly the same locale.
// "en" and "en-GB" are different locales.
func SameLocale(a, b language.Tag) bool {
	return a.String() == b.String()
}
