// Package similarity computes normalized-string similarity scores in the
// [0,100] range. Everything here is a pure function of its inputs: no I/O,
// no hidden state, reproducible bit-for-bit across runs. The hash engine and
// the matchers both depend on that.
package similarity

import "strings"

// Weights are the fixed sub-score weights of the generic comparator. They
// must sum to 100.
type Weights struct {
	Edit        int `yaml:"edit"`
	Token       int `yaml:"token"`
	Containment int `yaml:"containment"`
	Prefix      int `yaml:"prefix"`
}

// DefaultWeights returns the standard blend: edit distance dominates, token
// overlap second, containment and prefix as tie-breakers.
func DefaultWeights() Weights {
	return Weights{Edit: 40, Token: 30, Containment: 20, Prefix: 10}
}

// Config configures an Engine.
type Config struct {
	Weights Weights `yaml:"weights"`
	Tables  Tables  `yaml:"tables"`
}

// DefaultConfig returns the default weights and vocabularies.
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Tables: DefaultTables()}
}

// Engine scores string pairs. Construct once and share freely; it is
// read-only after New.
type Engine struct {
	weights Weights

	suffixes map[string]bool
	// canonical maps every nickname and canonical first name to the
	// canonical form.
	canonical map[string]string
}

// New builds an engine from config. Zero-valued weights fall back to
// defaults so partial overrides stay safe.
func New(cfg Config) *Engine {
	w := cfg.Weights
	if w.Edit+w.Token+w.Containment+w.Prefix != 100 {
		w = DefaultWeights()
	}

	e := &Engine{
		weights:   w,
		suffixes:  make(map[string]bool, len(cfg.Tables.LegalSuffixes)),
		canonical: make(map[string]string),
	}
	for _, s := range cfg.Tables.LegalSuffixes {
		e.suffixes[Normalize(s)] = true
	}
	for canon, nicks := range cfg.Tables.Nicknames {
		c := Normalize(canon)
		e.canonical[c] = c
		for _, n := range nicks {
			e.canonical[Normalize(n)] = c
		}
	}
	return e
}

// NewDefault builds an engine with the built-in tables.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// Score computes the weighted generic similarity of two strings after
// normalization. Identical inputs score 100; the comparator is symmetric.
func (e *Engine) Score(a, b string) int {
	return e.scoreNormalized(Normalize(a), Normalize(b))
}

// ScoreOrg compares two organization names with legal-suffix-aware
// normalization.
func (e *Engine) ScoreOrg(a, b string) int {
	return e.scoreNormalized(e.NormalizeOrg(a), e.NormalizeOrg(b))
}

func (e *Engine) scoreNormalized(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	score := e.weights.Edit*editSimilarity(a, b) +
		e.weights.Token*e.tokenOverlap(a, b) +
		e.weights.Containment*containment(a, b) +
		e.weights.Prefix*prefixSimilarity(a, b)
	return score / 100
}

// editSimilarity is the Levenshtein ratio scaled to [0,100].
func editSimilarity(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 100
	}
	return 100 * (longest - levenshtein(ra, rb)) / longest
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// tokenOverlap scores token-set similarity. Tokens pair fuzzily: each token
// takes its best edit similarity against the other side, averaged over both
// directions so the result stays symmetric.
func (e *Engine) tokenOverlap(a, b string) int {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	return (directedOverlap(ta, tb) + directedOverlap(tb, ta)) / 2
}

func directedOverlap(from, to []string) int {
	total := 0
	for _, t := range from {
		best := 0
		for _, u := range to {
			if s := editSimilarity(t, u); s > best {
				best = s
			}
		}
		total += best
	}
	return total / len(from)
}

// containment scores the longest common substring against the longer input.
// Full containment of the shorter string degenerates to the plain length
// ratio.
func containment(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 100
	}
	return 100 * longestCommonSubstring(ra, rb) / longest
}

func longestCommonSubstring(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		clear(curr)
	}
	return best
}

// prefixSimilarity scores the common prefix length against the longer input.
func prefixSimilarity(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 100
	}
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return 100 * n / longest
}
