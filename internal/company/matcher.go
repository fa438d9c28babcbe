// Package company implements the hub of the resolution engine: fuzzy
// matching of raw company text to a canonical company, identity readiness
// evaluation, and email-pattern discovery. Nothing downstream may treat a
// row as belonging to a company until the hub has set company_valid.
package company

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"anchor/internal/adapters"
	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

// MatchResult is the typed outcome of a company match. Consumers switch on
// Status; the Company pointer is set only for MATCHED.
type MatchResult struct {
	Status     domain.MatchStatus
	Company    *domain.CanonicalCompany
	Score      int
	Candidates []domain.Candidate
	Reason     string
}

// Matcher resolves raw company text against the canonical list.
type Matcher struct {
	cfg     Config
	sim     *similarity.Engine
	router  *failure.Router
	lookup  adapters.CompanyLookup
	invoker *adapters.Invoker
	logger  *slog.Logger
}

func newMatcher(cfg Config, sim *similarity.Engine, router *failure.Router, lookup adapters.CompanyLookup, invoker *adapters.Invoker, logger *slog.Logger) *Matcher {
	return &Matcher{
		cfg:     cfg,
		sim:     sim,
		router:  router,
		lookup:  lookup,
		invoker: invoker,
		logger:  logger,
	}
}

// Match scores the row's raw company name against every canonical company
// and classifies the best score. MATCHED sets the row's company gate; the
// other outcomes clear it with a reason and emit exactly one failure record
// to the company_fuzzy_failures bay.
func (m *Matcher) Match(ctx context.Context, row *domain.SlotRow, canonical []domain.CanonicalCompany) (MatchResult, error) {
	if err := row.Validate(); err != nil {
		return MatchResult{}, derrors.Wrap(err, derrors.CodeInvalidInput, "company match")
	}

	candidates := m.scoreAgainst(row.CompanyName, canonical)

	// Local matching inconclusive: ask the external lookup for alternative
	// spellings and re-score those against the canonical list before giving
	// up.
	if m.bestScore(candidates) < m.cfg.MinMatchThreshold && m.cfg.LookupFallback && m.lookup != nil {
		candidates = m.mergeLookup(ctx, row.CompanyName, canonical, candidates)
	}

	result := m.classify(row, candidates, canonical)
	matchOutcomes.WithLabelValues(string(result.Status)).Inc()

	switch result.Status {
	case domain.MatchAccepted:
		row.CompanyValid = true
		row.CompanyReason = ""
		row.CompanyID = result.Company.ID
	default:
		row.CompanyValid = false
		row.CompanyReason = result.Reason
		category := failure.CategoryCompanyFuzzy
		if err := m.router.Route(ctx, failure.BayCompanyFuzzy, failure.NewRecord(category, row, result.Candidates, result.Reason)); err != nil {
			return result, derrors.Wrap(err, derrors.CodeInternal, "route company match failure")
		}
		m.logger.Info("company match below auto-accept",
			"row_id", row.ID, "status", result.Status, "score", result.Score, "company", row.CompanyName)
	}
	return result, nil
}

func (m *Matcher) scoreAgainst(raw string, canonical []domain.CanonicalCompany) []domain.Candidate {
	normalized := m.sim.NormalizeOrg(raw)
	candidates := make([]domain.Candidate, 0, len(canonical))
	for _, c := range canonical {
		candidates = append(candidates, domain.Candidate{
			ID:         c.ID.String(),
			Name:       c.Name,
			Normalized: normalized,
			Score:      m.sim.ScoreOrg(raw, c.Name),
		})
	}
	return candidates
}

func (m *Matcher) bestScore(candidates []domain.Candidate) int {
	best := 0
	for _, c := range candidates {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// mergeLookup re-scores the lookup adapter's candidate names against the
// canonical list and keeps the better score per canonical company.
func (m *Matcher) mergeLookup(ctx context.Context, raw string, canonical []domain.CanonicalCompany, candidates []domain.Candidate) []domain.Candidate {
	records, _, err := adapters.Call(ctx, m.invoker, "company_lookup",
		func(ctx context.Context) ([]adapters.CompanyRecord, adapters.CallInfo, error) {
			return m.lookup.LookupCompany(ctx, raw)
		})
	if err != nil {
		// Adapter errors stay local: the matcher just proceeds with the
		// local scores.
		m.logger.Warn("company lookup fallback failed", "query", raw, "error", err)
		return candidates
	}

	best := make(map[string]int, len(candidates))
	for _, c := range candidates {
		best[c.ID] = c.Score
	}
	for _, rec := range records {
		for i, canon := range canonical {
			score := m.sim.ScoreOrg(rec.CompanyName, canon.Name)
			if score > best[canon.ID.String()] {
				best[canon.ID.String()] = score
				candidates[i].Score = score
			}
		}
	}
	return candidates
}

func (m *Matcher) classify(row *domain.SlotRow, candidates []domain.Candidate, canonical []domain.CanonicalCompany) MatchResult {
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	kept := make([]domain.Candidate, 0, m.cfg.TopK)
	floor := m.cfg.MinMatchThreshold / 2
	for _, c := range candidates {
		if c.Score <= floor {
			continue
		}
		kept = append(kept, c)
		if len(kept) == m.cfg.TopK {
			break
		}
	}

	if len(kept) == 0 || kept[0].Score < m.cfg.MinMatchThreshold {
		return MatchResult{
			Status:     domain.MatchUnmatched,
			Candidates: kept,
			Score:      m.bestScore(candidates),
			Reason:     fmt.Sprintf("no canonical company matched %q above %d", row.CompanyName, m.cfg.MinMatchThreshold),
		}
	}

	top := kept[0]
	if top.Score >= m.cfg.AutoAcceptThreshold {
		return MatchResult{
			Status:     domain.MatchAccepted,
			Company:    findCanonical(canonical, top.ID),
			Score:      top.Score,
			Candidates: kept,
		}
	}
	return MatchResult{
		Status:     domain.MatchManualReview,
		Score:      top.Score,
		Candidates: kept,
		Reason:     fmt.Sprintf("ambiguous match: best score %d for %q against %q", top.Score, row.CompanyName, top.Name),
	}
}

func findCanonical(canonical []domain.CanonicalCompany, id string) *domain.CanonicalCompany {
	for i := range canonical {
		if canonical[i].ID.String() == id {
			return &canonical[i]
		}
	}
	return nil
}
