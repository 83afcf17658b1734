// Package diagnosis holds the value types recorded against clinical
// observations, chiefly CodedOrFreeTextAnswer.
package diagnosis

import (
	"context"
	"strconv"
	"strings"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// Prefixes of the serialized answer grammar.
const (
	ConceptNamePrefix = "ConceptName:"
	ConceptPrefix     = "Concept:"
	NonCodedPrefix    = "Non-Coded:"
)

// ConceptService resolves dictionary references by numeric id.
type ConceptService interface {
	GetConcept(ctx context.Context, id int) (*model.Concept, error)
	GetConceptName(ctx context.Context, id int) (*model.ConceptName, error)
}

type answerKind uint8

const (
	kindNone answerKind = iota
	kindCoded
	kindSpecific
	kindNonCoded
)

// CodedOrFreeTextAnswer is an answer that is either a coded concept, a
// specific name of a coded concept, or free text. The zero value is an
// absent answer and formats as "?".
type CodedOrFreeTextAnswer struct {
	kind     answerKind
	concept  *model.Concept
	name     *model.ConceptName
	nonCoded string
}

// NewCodedAnswer returns an answer for a general concept.
func NewCodedAnswer(c *model.Concept) CodedOrFreeTextAnswer {
	var a CodedOrFreeTextAnswer
	a.SetCodedAnswer(c)
	return a
}

// NewSpecificCodedAnswer returns an answer recorded as a specific name of a
// concept. The general answer is the name's owning concept.
func NewSpecificCodedAnswer(n *model.ConceptName) CodedOrFreeTextAnswer {
	var a CodedOrFreeTextAnswer
	a.SetSpecificCodedAnswer(n)
	return a
}

// NewNonCodedAnswer returns a free-text answer.
func NewNonCodedAnswer(text string) CodedOrFreeTextAnswer {
	var a CodedOrFreeTextAnswer
	a.SetNonCodedAnswer(text)
	return a
}

// Parse builds an answer from its serialized form: "ConceptName:<id>",
// "Concept:<id>" or "Non-Coded:<text>". Errors returned by svc are passed
// through unchanged.
func Parse(ctx context.Context, spec string, svc ConceptService) (CodedOrFreeTextAnswer, error) {
	switch {
	case strings.HasPrefix(spec, ConceptNamePrefix):
		id, err := parseID(spec, ConceptNamePrefix)
		if err != nil {
			return CodedOrFreeTextAnswer{}, err
		}
		n, err := svc.GetConceptName(ctx, id)
		if err != nil {
			return CodedOrFreeTextAnswer{}, err
		}
		if n == nil {
			return CodedOrFreeTextAnswer{}, &UnresolvedError{Spec: spec, ID: id}
		}
		return NewSpecificCodedAnswer(n), nil
	case strings.HasPrefix(spec, ConceptPrefix):
		id, err := parseID(spec, ConceptPrefix)
		if err != nil {
			return CodedOrFreeTextAnswer{}, err
		}
		c, err := svc.GetConcept(ctx, id)
		if err != nil {
			return CodedOrFreeTextAnswer{}, err
		}
		if c == nil {
			return CodedOrFreeTextAnswer{}, &UnresolvedError{Spec: spec, ID: id}
		}
		return NewCodedAnswer(c), nil
	case strings.HasPrefix(spec, NonCodedPrefix):
		return NewNonCodedAnswer(spec[len(NonCodedPrefix):]), nil
	}
	return CodedOrFreeTextAnswer{}, &FormatError{Spec: spec}
}

func parseID(spec, prefix string) (int, error) {
	id, err := strconv.Atoi(spec[len(prefix):])
	if err != nil {
		return 0, &FormatError{Spec: spec, Err: err}
	}
	return id, nil
}

// CodedAnswer returns the general coded answer. For a specific answer this is
// the name's owning concept. Returns nil for free-text and absent answers.
func (a CodedOrFreeTextAnswer) CodedAnswer() *model.Concept {
	switch a.kind {
	case kindCoded:
		return a.concept
	case kindSpecific:
		return a.name.Concept
	}
	return nil
}

// SpecificCodedAnswer returns the specific name the answer was recorded as, or nil.
func (a CodedOrFreeTextAnswer) SpecificCodedAnswer() *model.ConceptName {
	if a.kind == kindSpecific {
		return a.name
	}
	return nil
}

// NonCodedAnswer returns the free-text answer and whether the answer is free text.
func (a CodedOrFreeTextAnswer) NonCodedAnswer() (string, bool) {
	return a.nonCoded, a.kind == kindNonCoded
}

// IsZero reports whether no answer is set.
func (a CodedOrFreeTextAnswer) IsZero() bool {
	return a.kind == kindNone
}

// SetCodedAnswer makes a a general coded answer. A nil concept clears the answer.
func (a *CodedOrFreeTextAnswer) SetCodedAnswer(c *model.Concept) {
	*a = CodedOrFreeTextAnswer{}
	if c != nil {
		a.kind = kindCoded
		a.concept = c
	}
}

// SetSpecificCodedAnswer makes a a specific coded answer; the general answer
// becomes n's owning concept. A nil name clears the answer.
func (a *CodedOrFreeTextAnswer) SetSpecificCodedAnswer(n *model.ConceptName) {
	*a = CodedOrFreeTextAnswer{}
	if n != nil {
		a.kind = kindSpecific
		a.name = n
	}
}

// SetNonCodedAnswer makes a a free-text answer.
func (a *CodedOrFreeTextAnswer) SetNonCodedAnswer(text string) {
	*a = CodedOrFreeTextAnswer{kind: kindNonCoded, nonCoded: text}
}

// Equal reports whether a and o hold the same answer. Concepts and names are
// compared by identity.
func (a CodedOrFreeTextAnswer) Equal(o CodedOrFreeTextAnswer) bool {
	if !a.CodedAnswer().Equal(o.CodedAnswer()) {
		return false
	}
	if !a.SpecificCodedAnswer().Equal(o.SpecificCodedAnswer()) {
		return false
	}
	at, aok := a.NonCodedAnswer()
	ot, ook := o.NonCodedAnswer()
	return aok == ook && at == ot
}

// Spec returns the serialized form accepted by Parse. An absent answer
// serializes as "".
func (a CodedOrFreeTextAnswer) Spec() string {
	switch a.kind {
	case kindSpecific:
		return ConceptNamePrefix + strconv.Itoa(a.name.ID)
	case kindCoded:
		return ConceptPrefix + strconv.Itoa(a.concept.ID)
	case kindNonCoded:
		return NonCodedPrefix + a.nonCoded
	}
	return ""
}

func (a CodedOrFreeTextAnswer) String() string {
	return a.Spec()
}
