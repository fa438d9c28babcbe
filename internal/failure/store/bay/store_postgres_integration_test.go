//go:build integration

package bay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/failure/store/bay"
	"anchor/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *bay.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = bay.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "failure_bays"))
}

func (s *PostgresStoreSuite) record(rowID string) failure.Record {
	row := &domain.SlotRow{ID: domain.RowID(rowID), SlotType: domain.SlotCFO, CompanyName: "Acme"}
	return failure.NewRecord(failure.CategoryCompanyFuzzy, row, []domain.Candidate{
		{ID: "c1", Name: "Acme Inc", Score: 75},
	}, "ambiguous match")
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()

	s.Run("round trips a record", func() {
		rec := s.record("row-1")
		s.Require().NoError(s.store.Append(ctx, failure.BayCompanyFuzzy, rec))

		records, err := s.store.List(ctx, failure.BayCompanyFuzzy, 0)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(rec.ID, records[0].ID)
		s.Equal(domain.RowID("row-1"), records[0].Row.ID)
		s.Require().Len(records[0].Candidates, 1)
		s.Equal(75, records[0].Candidates[0].Score)
	})

	s.Run("duplicate record id is ignored", func() {
		rec := s.record("row-dup")
		s.Require().NoError(s.store.Append(ctx, "dup", rec))
		s.Require().NoError(s.store.Append(ctx, "dup", rec))

		count, err := s.store.Count(ctx, "dup")
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("limit truncates the listing", func() {
		for _, id := range []string{"row-1", "row-2", "row-3"} {
			s.Require().NoError(s.store.Append(ctx, "limited", s.record(id)))
		}
		records, err := s.store.List(ctx, "limited", 2)
		s.Require().NoError(err)
		s.Len(records, 2)
	})
}

func (s *PostgresStoreSuite) TestBaysAndCount() {
	ctx := context.Background()

	s.Require().NoError(s.store.Append(ctx, failure.BayPersonFuzzy, s.record("row-1")))
	s.Require().NoError(s.store.Append(ctx, failure.BayCompanyFuzzy, s.record("row-2")))

	names, err := s.store.Bays(ctx)
	s.Require().NoError(err)
	s.Equal([]string{failure.BayCompanyFuzzy, failure.BayPersonFuzzy}, names)

	count, err := s.store.Count(ctx, failure.BayPersonFuzzy)
	s.Require().NoError(err)
	s.Equal(1, count)
}
