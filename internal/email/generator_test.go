package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"anchor/internal/adapters"
	"anchor/internal/adapters/adaptertest"
	"anchor/internal/domain"
	"anchor/internal/email"
	"anchor/internal/failure"
	"anchor/internal/failure/store/bay"
	"anchor/pkg/derrors"
)

type GeneratorSuite struct {
	suite.Suite

	ctx  context.Context
	bays *bay.MemoryStore
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.ctx = context.Background()
	s.bays = bay.NewMemory()
}

func (s *GeneratorSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *GeneratorSuite) newGenerator(opts ...email.Option) *email.Generator {
	router, err := failure.NewRouter(s.bays)
	s.Require().NoError(err)
	gen, err := email.NewGenerator(email.DefaultConfig(), router, opts...)
	s.Require().NoError(err)
	return gen
}

func validatedRow() *domain.SlotRow {
	return &domain.SlotRow{
		ID:                 "row-1",
		SlotType:           domain.SlotCEO,
		CompanyName:        "Acme Incorporated",
		CompanyID:          "comp-acme",
		CompanyValid:       true,
		PersonName:         "Robert Smith",
		PersonCompanyValid: true,
		EmailPattern:       "first.last",
	}
}

func (s *GeneratorSuite) TestGates() {
	s.Run("unvalidated company skips before any adapter call", func() {
		finder := &adaptertest.FakeEmailFinder{}
		verifier := &adaptertest.FakeEmailVerifier{}
		gen := s.newGenerator(email.WithFinder(finder), email.WithVerifier(verifier))

		row := validatedRow()
		row.CompanyValid = false
		row.CompanyReason = "ambiguous match"

		outcome, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(outcome.Skipped)
		s.Contains(outcome.SkipReason, "company not validated")
		s.Contains(outcome.SkipReason, "ambiguous match")
		s.Equal(outcome.SkipReason, row.EmailSkipReason)
		s.True(ar.Success)

		s.Empty(row.Email)
		s.False(row.EmailVerified)
		s.False(row.SlotComplete)
		s.Zero(finder.Calls.Load())
		s.Zero(verifier.Calls.Load())
	})

	s.Run("unvalidated person-company skips before any adapter call", func() {
		finder := &adaptertest.FakeEmailFinder{}
		gen := s.newGenerator(email.WithFinder(finder))

		row := validatedRow()
		row.PersonCompanyValid = false

		outcome, _ := gen.Generate(s.ctx, row, "acme.com")
		s.True(outcome.Skipped)
		s.Contains(outcome.SkipReason, "person-company not validated")
		s.Equal(outcome.SkipReason, row.EmailSkipReason)
		s.Empty(row.Email)
		s.Zero(finder.Calls.Load())
	})

	s.Run("missing person name is invalid input", func() {
		gen := s.newGenerator()
		row := validatedRow()
		row.PersonName = ""

		_, ar := gen.Generate(s.ctx, row, "acme.com")
		s.False(ar.Success)
		s.True(derrors.HasCode(ar.Err, derrors.CodeInvalidInput))
	})

	s.Run("missing domain is invalid input", func() {
		gen := s.newGenerator()
		_, ar := gen.Generate(s.ctx, validatedRow(), "")
		s.False(ar.Success)
		s.True(derrors.HasCode(ar.Err, derrors.CodeInvalidInput))
	})
}

func (s *GeneratorSuite) TestApplyPattern() {
	cases := []struct {
		pattern string
		want    string
	}{
		{"first.last", "robert.smith@acme.com"},
		{"first_last", "robert_smith@acme.com"},
		{"firstlast", "robertsmith@acme.com"},
		{"f.last", "r.smith@acme.com"},
		{"flast", "rsmith@acme.com"},
		{"first", "robert@acme.com"},
		{"last.first", "smith.robert@acme.com"},
	}
	for _, tc := range cases {
		s.Run(tc.pattern, func() {
			s.Equal(tc.want, email.ApplyPattern(tc.pattern, "Robert", "Smith", "acme.com"))
		})
	}

	s.Run("unknown pattern yields empty", func() {
		s.Empty(email.ApplyPattern("middle.initial", "Robert", "Smith", "acme.com"))
	})

	s.Run("missing first name yields empty", func() {
		s.Empty(email.ApplyPattern("first.last", "", "Smith", "acme.com"))
	})

	s.Run("single-token name trims the separator", func() {
		s.Equal("cher@acme.com", email.ApplyPattern("first.last", "Cher", "", "acme.com"))
		s.Equal("cher@acme.com", email.ApplyPattern("first_last", "Cher", "", "acme.com"))
	})
}

func (s *GeneratorSuite) TestPatternAddress() {
	s.Run("pattern address verified and written to the row", func() {
		finder := &adaptertest.FakeEmailFinder{}
		verifier := &adaptertest.FakeEmailVerifier{Status: adapters.VerificationValid}
		gen := s.newGenerator(email.WithFinder(finder), email.WithVerifier(verifier))

		row := validatedRow()
		outcome, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(ar.Success)
		s.Equal("robert.smith@acme.com", outcome.Email)
		s.Equal("pattern", outcome.Source)
		s.Equal(adapters.VerificationValid, outcome.Status)

		s.Equal("robert.smith@acme.com", row.Email)
		s.True(row.EmailVerified)
		s.True(row.SlotComplete)
		s.Zero(finder.Calls.Load())
		s.EqualValues(1, verifier.Calls.Load())
	})

	s.Run("unknown verification leaves the slot open", func() {
		verifier := &adaptertest.FakeEmailVerifier{Status: adapters.VerificationUnknown}
		gen := s.newGenerator(email.WithVerifier(verifier))

		row := validatedRow()
		_, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(ar.Success)
		s.Equal("robert.smith@acme.com", row.Email)
		s.False(row.EmailVerified)
		s.False(row.SlotComplete)
	})

	s.Run("no verifier records the address unverified", func() {
		gen := s.newGenerator()

		row := validatedRow()
		outcome, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(ar.Success)
		s.Equal(adapters.VerificationUnknown, outcome.Status)
		s.Equal("robert.smith@acme.com", row.Email)
		s.False(row.SlotComplete)
	})
}

func (s *GeneratorSuite) TestFinderFallback() {
	s.Run("finder fills in when the row has no pattern", func() {
		finder := &adaptertest.FakeEmailFinder{
			Result: adapters.EmailResult{Email: "bob.smith@acme.com", Confidence: 0.9},
		}
		gen := s.newGenerator(email.WithFinder(finder))

		row := validatedRow()
		row.EmailPattern = ""
		outcome, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(ar.Success)
		s.Equal("finder", outcome.Source)
		s.Equal("bob.smith@acme.com", row.Email)
		s.EqualValues(1, finder.Calls.Load())
	})

	s.Run("low-confidence finder result is rejected", func() {
		finder := &adaptertest.FakeEmailFinder{
			Result: adapters.EmailResult{Email: "guess@acme.com", Confidence: 0.2},
		}
		gen := s.newGenerator(email.WithFinder(finder))

		row := validatedRow()
		row.EmailPattern = ""
		_, ar := gen.Generate(s.ctx, row, "acme.com")
		s.False(ar.Success)
		s.True(derrors.HasCode(ar.Err, derrors.CodeNotFound))
		s.Empty(row.Email)

		records, err := s.bays.List(s.ctx, failure.BayEmailGeneration, 10)
		s.Require().NoError(err)
		s.Len(records, 1)
		s.Contains(records[0].Reason, "could not build address")
	})

	s.Run("no pattern and no finder routes to the generation bay", func() {
		gen := s.newGenerator()

		row := validatedRow()
		row.EmailPattern = ""
		_, ar := gen.Generate(s.ctx, row, "acme.com")
		s.False(ar.Success)

		count, err := s.bays.Count(s.ctx, failure.BayEmailGeneration)
		s.Require().NoError(err)
		s.Equal(1, count)
	})
}

func (s *GeneratorSuite) TestVerificationFailure() {
	s.Run("invalid verification routes and reports not found", func() {
		verifier := &adaptertest.FakeEmailVerifier{Status: adapters.VerificationInvalid}
		gen := s.newGenerator(email.WithVerifier(verifier))

		row := validatedRow()
		outcome, ar := gen.Generate(s.ctx, row, "acme.com")
		s.False(ar.Success)
		s.True(derrors.HasCode(ar.Err, derrors.CodeNotFound))
		s.Equal(adapters.VerificationInvalid, outcome.Status)

		s.Empty(row.Email)
		s.False(row.SlotComplete)

		records, err := s.bays.List(s.ctx, failure.BayEmailGeneration, 10)
		s.Require().NoError(err)
		s.Len(records, 1)
		s.Contains(records[0].Reason, "failed verification")
	})

	s.Run("verifier outage is treated as unknown", func() {
		verifier := &adaptertest.FakeEmailVerifier{Err: derrors.New(derrors.CodeUnavailable, "verifier down")}
		gen := s.newGenerator(email.WithVerifier(verifier))

		row := validatedRow()
		_, ar := gen.Generate(s.ctx, row, "acme.com")
		s.True(ar.Success)
		s.Equal("robert.smith@acme.com", row.Email)
		s.False(row.EmailVerified)
	})
}

func (s *GeneratorSuite) TestNewGenerator() {
	s.Run("requires a router", func() {
		_, err := email.NewGenerator(email.DefaultConfig(), nil)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
	})

	s.Run("out-of-range confidence falls back to defaults", func() {
		router, err := failure.NewRouter(s.bays)
		s.Require().NoError(err)
		gen, err := email.NewGenerator(email.Config{MinFinderConfidence: 7}, router)
		s.Require().NoError(err)
		s.NotNil(gen)
	})
}
