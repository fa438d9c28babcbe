// Package people implements the spoke of the resolution engine: matching a
// raw person to a canonical person within a resolved company, retrieving
// current employment, and validating that the person still works at the
// canonical company. The second golden rule lives here: email generation
// requires person_company_valid.
package people

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

// MatchResult is the typed outcome of a person match. There is no UNMATCHED
// terminal state for people: below the review band a person is NEW_PERSON.
type MatchResult struct {
	Status     domain.MatchStatus
	Person     *domain.CanonicalPerson
	Score      int
	Candidates []domain.Candidate
	Reason     string
}

// Matcher resolves raw person text against the canonical person list.
type Matcher struct {
	cfg    Config
	sim    *similarity.Engine
	router *failure.Router
	logger *slog.Logger
}

func newMatcher(cfg Config, sim *similarity.Engine, router *failure.Router, logger *slog.Logger) *Matcher {
	return &Matcher{cfg: cfg, sim: sim, router: router, logger: logger}
}

// Match scores the row's person against canonical people, nickname-aware,
// with an optional title hint boost. Candidates outside the row's resolved
// company are skipped unless scoping is relaxed.
func (m *Matcher) Match(ctx context.Context, row *domain.SlotRow, people []domain.CanonicalPerson, titleHint string) (MatchResult, error) {
	if err := row.Validate(); err != nil {
		return MatchResult{}, derrors.Wrap(err, derrors.CodeInvalidInput, "person match")
	}
	if row.PersonName == "" {
		return MatchResult{}, derrors.New(derrors.CodeInvalidInput, "person name is required")
	}

	hint := strings.ToLower(strings.TrimSpace(titleHint))
	candidates := make([]domain.Candidate, 0, len(people))
	for _, p := range people {
		if m.cfg.ScopeToCompany && !row.CompanyID.IsNil() && p.CompanyID != row.CompanyID {
			continue
		}
		score := m.sim.ScorePerson(row.PersonName, p.FullName)
		if hint != "" && strings.Contains(strings.ToLower(p.Title), hint) {
			score = min(100, score+m.cfg.TitleHintBoost)
		}
		candidates = append(candidates, domain.Candidate{
			ID:         p.ID.String(),
			Name:       p.FullName,
			Normalized: similarity.NormalizePerson(row.PersonName),
			Score:      score,
		})
	}

	result := m.classify(row, candidates, people)
	personMatchOutcomes.WithLabelValues(string(result.Status)).Inc()

	switch result.Status {
	case domain.MatchAccepted:
		row.PersonID = result.Person.ID
	case domain.MatchManualReview:
		if err := m.router.Route(ctx, failure.BayPersonFuzzy, failure.NewRecord(failure.CategoryPersonFuzzy, row, result.Candidates, result.Reason)); err != nil {
			return result, derrors.Wrap(err, derrors.CodeInternal, "route person match failure")
		}
		m.logger.Info("person match needs review",
			"row_id", row.ID, "score", result.Score, "person", row.PersonName)
	}
	return result, nil
}

func (m *Matcher) classify(row *domain.SlotRow, candidates []domain.Candidate, people []domain.CanonicalPerson) MatchResult {
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
		return MatchResult{Status: domain.MatchNewPerson, Candidates: kept}
	}

	top := kept[0]
	if top.Score >= m.cfg.AutoAcceptThreshold {
		return MatchResult{
			Status:     domain.MatchAccepted,
			Person:     findPerson(people, top.ID),
			Score:      top.Score,
			Candidates: kept,
		}
	}
	return MatchResult{
		Status:     domain.MatchManualReview,
		Score:      top.Score,
		Candidates: kept,
		Reason:     fmt.Sprintf("ambiguous person match: best score %d for %q against %q", top.Score, row.PersonName, top.Name),
	}
}

func findPerson(people []domain.CanonicalPerson, id string) *domain.CanonicalPerson {
	for i := range people {
		if people[i].ID.String() == id {
			return &people[i]
		}
	}
	return nil
}
