package similarity

import "strings"

// ScorePerson compares two person names with nickname expansion. The generic
// score is computed first; when the canonical forms of the first names agree
// ("bob" and "robert" both canonicalize to "robert") the match is rescored
// as a certain first-name match averaged with last-name similarity, and the
// better of the two scores wins.
func (e *Engine) ScorePerson(a, b string) int {
	na, nb := NormalizePerson(a), NormalizePerson(b)
	base := e.scoreNormalized(na, nb)

	fa, la := splitName(na)
	fb, lb := splitName(nb)
	if fa == "" || fb == "" {
		return base
	}

	if e.canonicalFirst(fa) == e.canonicalFirst(fb) {
		nick := (100 + e.scoreNormalized(la, lb)) / 2
		if nick > base {
			return nick
		}
	}
	return base
}

// canonicalFirst resolves a first name through the nickname table; names not
// in the table are their own canonical form.
func (e *Engine) canonicalFirst(name string) string {
	if c, ok := e.canonical[name]; ok {
		return c
	}
	return name
}

// splitName returns the first token and the remainder of a normalized name.
func splitName(name string) (first, rest string) {
	i := strings.IndexByte(name, ' ')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}
