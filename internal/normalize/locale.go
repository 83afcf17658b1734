package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale parses a locale in either BCP 47 ("en-GB") or Java style
// ("en_GB") form.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return tag, nil
}
