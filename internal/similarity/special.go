package similarity

import "strings"

// ScoreEmail compares two addresses. Domains must match exactly; with equal
// domains the score is the generic similarity of the local parts.
func (e *Engine) ScoreEmail(a, b string) int {
	la, da, ok := splitEmail(a)
	if !ok {
		return 0
	}
	lb, db, ok := splitEmail(b)
	if !ok {
		return 0
	}
	if da != db {
		return 0
	}
	return e.scoreNormalized(Normalize(la), Normalize(lb))
}

func splitEmail(addr string) (local, domain string, ok bool) {
	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return "", "", false
	}
	return addr[:at], strings.ToLower(addr[at+1:]), true
}

// ScorePhone compares digit strings. Suffix containment absorbs country-code
// variants: "+1 415 555 0100" and "415 555 0100" compare as the same number.
func (e *Engine) ScorePhone(a, b string) int {
	da, db := digitsOnly(a), digitsOnly(b)
	if da == "" || db == "" {
		return 0
	}
	if da == db {
		return 100
	}
	shorter, longer := da, db
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 7 && strings.HasSuffix(longer, shorter) {
		return 90
	}
	return e.scoreNormalized(da, db)
}

// ScoreURL compares URLs. Hostnames must match exactly (ignoring scheme and
// a www prefix); with equal hosts the score is path similarity.
func (e *Engine) ScoreURL(a, b string) int {
	ha, pa := splitURL(a)
	hb, pb := splitURL(b)
	if ha == "" || hb == "" || ha != hb {
		return 0
	}
	if pa == pb {
		return 100
	}
	return e.scoreNormalized(Normalize(pa), Normalize(pb))
}

func splitURL(raw string) (host, path string) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], strings.Trim(s[i:], "/")
	}
	return s, ""
}
