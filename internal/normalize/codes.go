package normalize

import (
	"regexp"
	"strings"
)

var innerSpace = regexp.MustCompile(`\s+`)

// TrimCode trims surrounding whitespace from a reference-term code and
// otherwise keeps it as the terminology spells it. Returns nil if the result
// is empty.
func TrimCode(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeCode trims whitespace, uppercases, and removes inner whitespace from
// a reference-term code for matching. Punctuation is kept: "i21.9" becomes
// "I21.9". Returns nil if the result is empty. Stored and displayed codes use
// TrimCode.
func NormalizeCode(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	s = strings.ToUpper(s)
	s = innerSpace.ReplaceAllString(s, "")
	return &s
}
