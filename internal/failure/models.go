// Package failure routes structured failure records to named review bays.
// It is the single write path for ambiguous or invalid outcomes: no agent
// may silently drop a record it could not resolve.
package failure

import (
	"time"

	"github.com/google/uuid"

	"anchor/internal/domain"
)

// Category classifies why a stage could not produce a confident result.
type Category string

const (
	CategoryCompanyFuzzy          Category = "company_fuzzy"
	CategoryPersonFuzzy           Category = "person_fuzzy"
	CategoryEmailPattern          Category = "email_pattern"
	CategoryPersonCompanyMismatch Category = "person_company_mismatch"
	CategoryEmailGeneration       Category = "email_generation"
)

// Bay names. Each producing agent owns its destination.
const (
	BayCompanyFuzzy          = "company_fuzzy_failures"
	BayPersonFuzzy           = "person_fuzzy_failures"
	BayEmailPattern          = "email_pattern_failures"
	BayPersonCompanyMismatch = "person_company_mismatch"
	BayEmailGeneration       = "email_generation_failures"
)

// Record is an immutable snapshot of one failure event. Created once,
// never mutated, consumed only by its destination bay.
type Record struct {
	ID         string             `json:"id"`
	Category   Category           `json:"category"`
	Row        domain.SlotRow     `json:"row"`
	Candidates []domain.Candidate `json:"candidates,omitempty"`
	Reason     string             `json:"reason"`
	CreatedAt  time.Time          `json:"created_at"`
}

// NewRecord snapshots a row and its candidates into a fresh record. The row
// is copied by value so later pipeline mutation cannot reach into the bay.
func NewRecord(category Category, row *domain.SlotRow, candidates []domain.Candidate, reason string) Record {
	rec := Record{
		ID:        uuid.NewString(),
		Category:  category,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if row != nil {
		rec.Row = *row
	}
	if len(candidates) > 0 {
		rec.Candidates = make([]domain.Candidate, len(candidates))
		copy(rec.Candidates, candidates)
	}
	return rec
}
