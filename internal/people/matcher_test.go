package people

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/failure/store/bay"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

type MatcherSuite struct {
	suite.Suite
	ctx    context.Context
	bays   *bay.MemoryStore
	router *failure.Router
	people []domain.CanonicalPerson
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
	s.people = []domain.CanonicalPerson{
		{ID: "pers-bob", CompanyID: "comp-acme", FullName: "Robert Smith", Title: "Chief Executive Officer"},
		{ID: "pers-sue", CompanyID: "comp-acme", FullName: "Susan Jones", Title: "Chief Financial Officer"},
		{ID: "pers-other", CompanyID: "comp-zenith", FullName: "Robert Smith", Title: "CEO"},
	}
}

func (s *MatcherSuite) newSpoke(opts ...Option) *Spoke {
	spoke, err := NewSpoke(DefaultConfig(), similarity.NewDefault(), s.router, opts...)
	s.Require().NoError(err)
	return spoke
}

func (s *MatcherSuite) row(person string) *domain.SlotRow {
	return &domain.SlotRow{
		ID:           "row-1",
		SlotType:     domain.SlotCEO,
		CompanyName:  "Acme Inc.",
		CompanyID:    "comp-acme",
		CompanyValid: true,
		PersonName:   person,
	}
}

func (s *MatcherSuite) TestMatch() {
	s.Run("nickname variant auto-accepts", func() {
		spoke := s.newSpoke()
		row := s.row("Bob Smith")

		result, ar := spoke.MatchPerson(s.ctx, row, s.people, "")
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchAccepted, result.Status)
		s.Require().NotNil(result.Person)
		s.Equal(domain.PersonID("pers-bob"), result.Person.ID)
		s.Equal(domain.PersonID("pers-bob"), row.PersonID)
	})

	s.Run("candidates are scoped to the resolved company", func() {
		spoke := s.newSpoke()
		row := s.row("Bob Smith")
		row.CompanyID = "comp-zenith"

		result, ar := spoke.MatchPerson(s.ctx, row, s.people, "")
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchAccepted, result.Status)
		s.Equal(domain.PersonID("pers-other"), result.Person.ID)
	})

	s.Run("unknown person is new, not an error", func() {
		spoke := s.newSpoke()
		row := s.row("Wanda Maximoff")

		result, ar := spoke.MatchPerson(s.ctx, row, s.people, "")
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchNewPerson, result.Status)
		s.True(row.PersonID.IsNil())
		count, err := s.bays.Count(s.ctx, failure.BayPersonFuzzy)
		s.Require().NoError(err)
		s.Zero(count)
	})

	s.Run("ambiguous match routes to the person bay", func() {
		people := []domain.CanonicalPerson{
			{ID: "pers-amb", CompanyID: "comp-acme", FullName: "Roberta Smithson"},
		}
		spoke := s.newSpoke()
		row := s.row("Robert Smith")

		result, ar := spoke.MatchPerson(s.ctx, row, people, "")
		s.Require().NoError(ar.Err)
		s.Equal(domain.MatchManualReview, result.Status)
		s.True(row.PersonID.IsNil())

		count, err := s.bays.Count(s.ctx, failure.BayPersonFuzzy)
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("title hint boosts a borderline candidate", func() {
		people := []domain.CanonicalPerson{
			{ID: "pers-amb", CompanyID: "comp-acme", FullName: "Roberta Smithson", Title: "CEO"},
		}
		spoke := s.newSpoke()

		base, ar := spoke.MatchPerson(s.ctx, s.row("Robert Smith"), people, "")
		s.Require().NoError(ar.Err)
		boosted, ar := spoke.MatchPerson(s.ctx, s.row("Robert Smith"), people, "CEO")
		s.Require().NoError(ar.Err)
		s.Equal(base.Score+DefaultConfig().TitleHintBoost, boosted.Score)
	})

	s.Run("missing person name is invalid input", func() {
		spoke := s.newSpoke()
		_, ar := spoke.MatchPerson(s.ctx, s.row(""), s.people, "")
		s.Require().Error(ar.Err)
		s.True(derrors.HasCode(ar.Err, derrors.CodeInvalidInput))
	})
}
