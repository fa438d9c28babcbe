package similarity

import (
	"strings"
	"unicode"
)

// Normalize lowercases, replaces punctuation with spaces, and collapses
// whitespace. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeOrg normalizes an organization name and strips trailing
// legal-entity suffix tokens ("Acme Holdings Inc" -> "acme"). Stripping never
// empties the name: a company literally named "Group" keeps its one token.
func (e *Engine) NormalizeOrg(s string) string {
	tokens := strings.Fields(Normalize(s))
	for len(tokens) > 1 && e.suffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// NormalizePerson normalizes a person name without suffix stripping.
func NormalizePerson(s string) string {
	return Normalize(s)
}

// digitsOnly keeps the digit runes of s, for phone comparison.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
