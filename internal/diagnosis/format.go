package diagnosis

import (
	"golang.org/x/text/language"

	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// Placeholder is the display string of an absent answer.
const Placeholder = "?"

// arrow joins a specific name to the concept's preferred name.
const arrow = " → "

// FormatWithoutSpecificAnswer formats the answer as its free text or as the
// concept's preferred name in locale. The specific name is never shown.
func (a CodedOrFreeTextAnswer) FormatWithoutSpecificAnswer(locale language.Tag) string {
	if text, ok := a.NonCodedAnswer(); ok {
		return text
	}
	c := a.CodedAnswer()
	if c == nil {
		return Placeholder
	}
	return preferredName(c, locale)
}

// Format formats the answer as one of:
//   - the free text
//   - the concept's preferred name in locale
//   - "specific name → preferred name in locale"
//
// The arrow form is collapsed to the specific name when that name is itself
// preferred in locale, or when the concept has no other preferred name there.
func (a CodedOrFreeTextAnswer) Format(locale language.Tag) string {
	if text, ok := a.NonCodedAnswer(); ok {
		return text
	}
	c := a.CodedAnswer()
	if c == nil {
		return Placeholder
	}
	specific := a.SpecificCodedAnswer()
	if specific == nil {
		return preferredName(c, locale)
	}
	if specific.LocalePreferred && model.SameLocale(specific.Locale, locale) {
		return specific.Name
	}
	preferred := c.PreferredName(locale)
	if preferred == nil || preferred.Equal(specific) {
		return specific.Name
	}
	return specific.Name + arrow + preferred.Name
}

// FormatWithCode is Format with the code of the concept's best mapping into
// one of sources appended as " [code]". Free-text and absent answers format
// as Format does.
func (a CodedOrFreeTextAnswer) FormatWithCode(locale language.Tag, sources []*model.ConceptSource) string {
	c := a.CodedAnswer()
	if c == nil {
		return a.Format(locale)
	}
	formatted := a.Format(locale)
	term := bestMapping(c, sources)
	if term == nil {
		return formatted
	}
	return formatted + " [" + term.Code + "]"
}

// bestMapping returns the term of the first SAME-AS mapping into sources. If
// there is none it returns the last NARROWER-THAN mapping's term, or nil.
func bestMapping(c *model.Concept, sources []*model.ConceptSource) *model.ConceptReferenceTerm {
	var nextBest *model.ConceptReferenceTerm
	for _, m := range c.ConceptMappings() {
		if m == nil || m.Term == nil || m.MapType == nil || !containsSource(sources, m.Term.Source) {
			continue
		}
		switch m.MapType.UUID {
		case model.SameAsMapTypeUUID:
			return m.Term
		case model.NarrowerThanMapTypeUUID:
			nextBest = m.Term
		}
	}
	return nextBest
}

func containsSource(sources []*model.ConceptSource, s *model.ConceptSource) bool {
	if s == nil {
		return false
	}
	for _, candidate := range sources {
		if candidate.Equal(s) {
			return true
		}
	}
	return false
}

func preferredName(c *model.Concept, locale language.Tag) string {
	if n := c.PreferredName(locale); n != nil {
		return n.Name
	}
	return Placeholder
}
