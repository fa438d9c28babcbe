// Package movement fingerprints the identity-relevant fields of a slot row
// so a later observation of the same slot can be compared for change. The
// engine is pure: no I/O, no clock reads beyond the timestamp the caller
// passes in.
package movement

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strings"
	"time"

	"anchor/internal/domain"
	"anchor/internal/similarity"
)

// Algorithm selects the digest. SHA-256 is the default.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

const fieldDelimiter = "|"

// Config controls which optional fields join the fingerprint.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm"`

	// IncludeEmail and IncludeLinkedIn widen the identity to contact fields.
	IncludeEmail    bool `yaml:"include_email"`
	IncludeLinkedIn bool `yaml:"include_linkedin"`

	// IncludeDate mixes a day-granularity UTC date into the hash. Off by
	// default: movement must not fire on the passage of time alone.
	IncludeDate bool `yaml:"include_date"`
}

// DefaultConfig returns the standard fingerprint shape.
func DefaultConfig() Config {
	return Config{Algorithm: SHA256}
}

// Engine computes movement hashes.
type Engine struct {
	cfg Config
	sim *similarity.Engine
}

// New builds a hash engine. The similarity engine supplies the same
// normalization the matchers use, so a cosmetic rename ("Acme Inc" to "Acme
// Incorporated") does not register as movement.
func New(cfg Config, sim *similarity.Engine) (*Engine, error) {
	if sim == nil {
		return nil, fmt.Errorf("similarity engine is required")
	}
	switch cfg.Algorithm {
	case "", SHA256, SHA512:
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", cfg.Algorithm)
	}
	return &Engine{cfg: cfg, sim: sim}, nil
}

// Fields builds the canonical key-value map hashed for a row. Exported so
// callers can inspect exactly what the fingerprint covers.
func (e *Engine) Fields(row *domain.SlotRow, now time.Time) map[string]string {
	fields := map[string]string{
		"row_id":          row.ID.String(),
		"company":         e.sim.NormalizeOrg(row.CompanyName),
		"slot":            strings.ToUpper(string(row.SlotType)),
		"person":          similarity.NormalizePerson(row.PersonName),
		"title":           similarity.Normalize(row.CurrentTitle),
		"current_company": e.sim.NormalizeOrg(row.CurrentCompany),
	}
	if e.cfg.IncludeEmail {
		fields["email"] = strings.ToLower(strings.TrimSpace(row.Email))
	}
	if e.cfg.IncludeLinkedIn {
		fields["linkedin"] = strings.ToLower(strings.TrimSpace(row.LinkedInURL))
	}
	if e.cfg.IncludeDate {
		fields["date"] = now.UTC().Format("2006-01-02")
	}
	return fields
}

// Hash fingerprints a row. The serialization sorts keys, so the result is
// independent of map insertion order.
func (e *Engine) Hash(row *domain.SlotRow, now time.Time) (string, error) {
	if row == nil {
		return "", fmt.Errorf("slot row is required")
	}
	return e.hashFields(e.Fields(row, now)), nil
}

func (e *Engine) hashFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+fields[k])
	}

	var h hash.Hash
	switch e.cfg.Algorithm {
	case SHA512:
		h = sha512.New()
	default:
		h = sha256.New()
	}
	h.Write([]byte(strings.Join(pairs, fieldDelimiter)))
	return hex.EncodeToString(h.Sum(nil))
}
