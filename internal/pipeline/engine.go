// Package pipeline runs slot rows through the strictly ordered stage
// sequence: company match, readiness, pattern discovery, person match,
// employment, movement hash, email generation. Stages within one row never
// reorder; rows are embarrassingly parallel.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"anchor/internal/company"
	"anchor/internal/domain"
	"anchor/internal/email"
	"anchor/internal/movement"
	"anchor/internal/people"
	"anchor/pkg/derrors"
)

// Catalog is the read-only reference data a batch matches against.
type Catalog struct {
	Companies []domain.CanonicalCompany
	People    []domain.CanonicalPerson

	// FilledSlots reports which slots are already populated per company,
	// feeding the fill-rate half of readiness.
	FilledSlots map[domain.CompanyID]map[domain.SlotType]bool

	// PreviousHashes are the movement hashes from the prior observation of
	// each row, if any.
	PreviousHashes map[domain.RowID]string
}

// Engine wires the hub, spoke, hash engine, and generator into one per-row
// pipeline.
type Engine struct {
	hub       *company.Hub
	spoke     *people.Spoke
	generator *email.Generator
	hasher    *movement.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs a pipeline engine.
func NewEngine(hub *company.Hub, spoke *people.Spoke, generator *email.Generator, hasher *movement.Engine, opts ...Option) (*Engine, error) {
	if hub == nil || spoke == nil || generator == nil || hasher == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "hub, spoke, generator, and hash engine are required")
	}
	e := &Engine{
		hub:       hub,
		spoke:     spoke,
		generator: generator,
		hasher:    hasher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ProcessRow runs one row through every stage in order. The row is mutated
// in place; the returned envelopes are the audit trail. A stage failure
// flags the row and is recorded, it never panics or aborts the pipeline.
func (e *Engine) ProcessRow(ctx context.Context, row *domain.SlotRow, cat Catalog) []domain.AgentResult {
	var results []domain.AgentResult
	record := func(ar domain.AgentResult) {
		results = append(results, ar)
	}

	match, ar := e.hub.ResolveCompany(ctx, row, cat.Companies)
	record(ar)
	if ar.Err != nil && derrors.HasCode(ar.Err, derrors.CodeInvalidInput) {
		// Caller error: nothing downstream can run without a company name.
		return results
	}

	snap := e.snapshot(row, match, cat)
	eval := e.hub.Readiness(snap)
	record(domain.NewAgentResult(domain.AgentCompanyReadiness, row.ID, true, string(eval.Readiness), nil))

	patternOutcome, ar := e.hub.DiscoverPattern(ctx, row, match.Company)
	record(ar)

	// Manual-review rows keep flowing through non-email stages so reviewers
	// see an enriched row; a fully unmatched company blocks the spoke.
	if !eval.Capabilities.PeopleSpoke {
		return results
	}

	if row.PersonName != "" {
		_, ar = e.spoke.MatchPerson(ctx, row, cat.People, string(row.SlotType))
		record(ar)

		employment, ar := e.spoke.ResolveEmployment(ctx, row, e.canonicalName(row, match.Company))
		record(ar)

		moved, err := e.hasher.Observe(row, e.now())
		if prev, ok := cat.PreviousHashes[row.ID]; ok && !moved {
			moved = movement.Detect(prev, row.MovementHash)
			row.MovementDetected = moved
		}
		detail := string(employment.Movement)
		if moved {
			detail += " (hash changed)"
		}
		record(domain.NewAgentResult(domain.AgentMovement, row.ID, err == nil, detail, err))
	}

	_, ar = e.generator.Generate(ctx, row, e.emailDomain(match.Company, patternOutcome))
	record(ar)

	return results
}

// snapshot assembles the readiness view. A matched company contributes its
// canonical identity. A manual-review row borrows its top candidate's
// identity so the spoke stays open while the company gate is down; a fully
// unmatched row contributes only its raw name, which reads as MISSING.
func (e *Engine) snapshot(row *domain.SlotRow, match company.MatchResult, cat Catalog) company.Snapshot {
	snap := company.Snapshot{
		Name:  row.CompanyName,
		Valid: row.CompanyValid,
	}
	matched := match.Company
	if matched == nil && match.Status == domain.MatchManualReview && len(match.Candidates) > 0 {
		matched = findCandidateCompany(cat.Companies, match.Candidates[0].ID)
	}
	if matched != nil {
		snap.ID = matched.ID
		snap.Name = matched.Name
		snap.Domain = matched.Domain
		snap.EmailPattern = firstNonEmpty(row.EmailPattern, matched.EmailPattern)
		snap.FilledSlots = cat.FilledSlots[matched.ID]
	}
	return snap
}

func findCandidateCompany(companies []domain.CanonicalCompany, id string) *domain.CanonicalCompany {
	for i := range companies {
		if companies[i].ID.String() == id {
			return &companies[i]
		}
	}
	return nil
}

func (e *Engine) canonicalName(row *domain.SlotRow, matched *domain.CanonicalCompany) string {
	if matched != nil {
		return matched.Name
	}
	return row.CompanyName
}

func (e *Engine) emailDomain(matched *domain.CanonicalCompany, pattern company.PatternOutcome) string {
	if matched != nil && matched.Domain != "" {
		return matched.Domain
	}
	return pattern.Domain
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
