package company

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"anchor/internal/adapters"
	"anchor/internal/adapters/adaptertest"
	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/failure/store/bay"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

type MatcherSuite struct {
	suite.Suite
	ctx       context.Context
	bays      *bay.MemoryStore
	router    *failure.Router
	canonical []domain.CanonicalCompany
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func (s *MatcherSuite) SetupTest() {
	s.ctx = context.Background()
	s.bays = bay.NewMemory()
	router, err := failure.NewRouter(s.bays)
	s.Require().NoError(err)
	s.router = router
	s.canonical = []domain.CanonicalCompany{
		{ID: "comp-acme", Name: "Acme Incorporated", Domain: "acme.com", EmailPattern: "first.last"},
		{ID: "comp-zenith", Name: "Zenith Plumbing", Domain: "zenith.com"},
	}
}

func (s *MatcherSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *MatcherSuite) newHub(opts ...Option) *Hub {
	hub, err := NewHub(DefaultConfig(), similarity.NewDefault(), s.router, opts...)
	s.Require().NoError(err)
	return hub
}

func (s *MatcherSuite) row(companyName string) *domain.SlotRow {
	return &domain.SlotRow{ID: "row-1", SlotType: domain.SlotCEO, CompanyName: companyName}
}

func (s *MatcherSuite) bayCount(bayName string) int {
	count, err := s.bays.Count(s.ctx, bayName)
	s.Require().NoError(err)
	return count
}

func (s *MatcherSuite) TestMatch() {
	s.Run("suffix variant auto-accepts and sets the gate", func() {
		hub := s.newHub()
		row := s.row("Acme Inc.")

		result, ar := hub.ResolveCompany(s.ctx, row, s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchAccepted, result.Status)
		s.Equal(100, result.Score)
		s.Require().NotNil(result.Company)
		s.Equal(domain.CompanyID("comp-acme"), result.Company.ID)

		s.True(row.CompanyValid)
		s.Equal(domain.CompanyID("comp-acme"), row.CompanyID)
		s.Empty(row.CompanyReason)
		s.Zero(s.bayCount(failure.BayCompanyFuzzy))
	})

	s.Run("near miss goes to manual review with exactly one bay record", func() {
		hub := s.newHub()
		row := s.row("Akme Corp")

		result, ar := hub.ResolveCompany(s.ctx, row, s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchManualReview, result.Status)
		s.GreaterOrEqual(result.Score, 60)
		s.Less(result.Score, 90)
		s.Nil(result.Company)
		s.NotEmpty(result.Candidates)

		s.False(row.CompanyValid)
		s.NotEmpty(row.CompanyReason)
		s.Equal(1, s.bayCount(failure.BayCompanyFuzzy))

		records, err := s.bays.List(s.ctx, failure.BayCompanyFuzzy, 0)
		s.Require().NoError(err)
		s.Equal(failure.CategoryCompanyFuzzy, records[0].Category)
		s.NotEmpty(records[0].Candidates)
	})

	s.Run("unrelated name is unmatched", func() {
		hub := s.newHub()
		row := s.row("Completely Different Enterprises")

		result, ar := hub.ResolveCompany(s.ctx, row, s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchUnmatched, result.Status)
		s.False(row.CompanyValid)
		s.Equal(1, s.bayCount(failure.BayCompanyFuzzy))
	})

	s.Run("missing company name is invalid input", func() {
		hub := s.newHub()
		row := s.row("")

		_, ar := hub.ResolveCompany(s.ctx, row, s.canonical)
		s.Require().Error(ar.Err)
		s.True(derrors.HasCode(ar.Err, derrors.CodeInvalidInput))
		s.Zero(s.bayCount(failure.BayCompanyFuzzy))
	})

	s.Run("candidate list is capped at top k", func() {
		canonical := make([]domain.CanonicalCompany, 0, 8)
		for _, name := range []string{
			"Acme Widgets", "Acme Widget", "Acme Widgetry", "Acme Widgets Co",
			"Acme Widgets Group", "Acme Widgets Intl", "Acme Widget Works", "Acme Widgets LLC",
		} {
			canonical = append(canonical, domain.CanonicalCompany{ID: domain.CompanyID("c-" + name), Name: name})
		}
		hub := s.newHub()
		result, ar := hub.ResolveCompany(s.ctx, s.row("Acme Widgets"), canonical)
		s.Require().NoError(ar.Err)
		s.LessOrEqual(len(result.Candidates), DefaultConfig().TopK)
	})
}

func (s *MatcherSuite) TestLookupFallback() {
	s.Run("lookup runs only when local matching is inconclusive", func() {
		lookup := &adaptertest.FakeCompanyLookup{
			Records: []adapters.CompanyRecord{{CompanyName: "Zenith Plumbing", Domain: "zenith.com"}},
		}
		hub := s.newHub(WithCompanyLookup(lookup))

		_, ar := hub.ResolveCompany(s.ctx, s.row("Acme Inc."), s.canonical)
		s.Require().NoError(ar.Err)
		s.Zero(lookup.Calls.Load())

		// An alias no local score can place resolves through the lookup.
		result, ar := hub.ResolveCompany(s.ctx, s.row("ZP Services Intl"), s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(int64(1), lookup.Calls.Load())
		s.Equal(domain.MatchAccepted, result.Status)
		s.Equal(domain.CompanyID("comp-zenith"), result.Company.ID)
	})

	s.Run("lookup errors fall back to local scores", func() {
		lookup := &adaptertest.FakeCompanyLookup{Err: errors.New("vendor down")}
		hub := s.newHub(WithCompanyLookup(lookup))

		result, ar := hub.ResolveCompany(s.ctx, s.row("No Such Entity Anywhere"), s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchUnmatched, result.Status)
		s.Equal(int64(1), lookup.Calls.Load())
	})
}

func (s *MatcherSuite) TestUpdateConfig() {
	s.Run("thresholds apply to subsequent matches", func() {
		hub := s.newHub()

		cfg := DefaultConfig()
		cfg.AutoAcceptThreshold = 60
		hub.UpdateConfig(cfg)

		row := s.row("Akme Corp")
		result, ar := hub.ResolveCompany(s.ctx, row, s.canonical)
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchAccepted, result.Status)
		s.True(row.CompanyValid)
	})
}
