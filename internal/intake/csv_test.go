package intake_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"anchor/internal/domain"
	"anchor/internal/intake"
	"anchor/pkg/derrors"
)

type CSVSuite struct {
	suite.Suite
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVSuite))
}

func (s *CSVSuite) TestReadRows() {
	s.Run("maps recognized headers in any order", func() {
		in := strings.NewReader(
			"slot,company,person,linkedin,title,id\n" +
				"ceo,Acme Inc,Bob Smith,https://linkedin.com/in/bob,CEO,row-1\n")
		rows, err := intake.ReadRows(in)
		s.Require().NoError(err)
		s.Require().Len(rows, 1)

		row := rows[0]
		s.Equal(domain.RowID("row-1"), row.ID)
		s.Equal(domain.SlotCEO, row.SlotType)
		s.Equal("Acme Inc", row.CompanyName)
		s.Equal("Bob Smith", row.PersonName)
		s.Equal("https://linkedin.com/in/bob", row.LinkedInURL)
		s.Equal("CEO", row.CurrentTitle)
	})

	s.Run("missing id gets generated", func() {
		in := strings.NewReader("company,slot\nAcme Inc,CFO\n")
		rows, err := intake.ReadRows(in)
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.NotEmpty(rows[0].ID)
		_, err = uuid.Parse(rows[0].ID.String())
		s.NoError(err)
	})

	s.Run("unknown slot names the offending line", func() {
		in := strings.NewReader("company,slot\nAcme Inc,CEO\nAcme Inc,CHIEF\n")
		_, err := intake.ReadRows(in)
		s.Require().Error(err)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
		s.Contains(err.Error(), "row 3")
	})

	s.Run("unknown columns are ignored", func() {
		in := strings.NewReader("company,slot,shoe_size\nAcme Inc,HR,44\n")
		rows, err := intake.ReadRows(in)
		s.Require().NoError(err)
		s.Len(rows, 1)
	})

	s.Run("empty input is rejected", func() {
		_, err := intake.ReadRows(strings.NewReader(""))
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
	})
}

func (s *CSVSuite) TestReadCompanies() {
	in := strings.NewReader(
		"id,name,domain,email_pattern\n" +
			"comp-acme,Acme Incorporated,acme.com,first.last\n" +
			"comp-zenith,Zenith Plumbing,,\n")
	companies, err := intake.ReadCompanies(in)
	s.Require().NoError(err)
	s.Require().Len(companies, 2)
	s.Equal(domain.CanonicalCompany{
		ID: "comp-acme", Name: "Acme Incorporated", Domain: "acme.com", EmailPattern: "first.last",
	}, companies[0])
	s.Empty(companies[1].Domain)
}

func (s *CSVSuite) TestReadPeople() {
	in := strings.NewReader(
		"id,company_id,name,title,profile_url\n" +
			"pers-bob,comp-acme,Robert Smith,CEO,https://linkedin.com/in/bob\n")
	people, err := intake.ReadPeople(in)
	s.Require().NoError(err)
	s.Require().Len(people, 1)
	s.Equal(domain.CanonicalPerson{
		ID: "pers-bob", CompanyID: "comp-acme", FullName: "Robert Smith",
		Title: "CEO", ProfileURL: "https://linkedin.com/in/bob",
	}, people[0])
}

func (s *CSVSuite) TestWriteRows() {
	row := &domain.SlotRow{
		ID:                 "row-1",
		SlotType:           domain.SlotCEO,
		CompanyName:        "Acme Incorporated",
		CompanyID:          "comp-acme",
		CompanyValid:       true,
		PersonName:         "Robert Smith",
		PersonID:           "pers-bob",
		PersonCompanyValid: true,
		PersonCompanyScore: 0.917,
		Email:              "robert.smith@acme.com",
		EmailVerified:      true,
		EmailPattern:       "first.last",
		MovementHash:       "abc123",
		SlotComplete:       true,
	}

	var buf bytes.Buffer
	s.Require().NoError(intake.WriteRows(&buf, []*domain.SlotRow{row}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 2)
	s.True(strings.HasPrefix(lines[0], "id,slot,company,"))
	s.Contains(lines[1], "row-1,CEO,Acme Incorporated,comp-acme,true")
	s.Contains(lines[1], "robert.smith@acme.com")
	s.Contains(lines[1], "0.92") // score rounded to two decimals
}

func (s *CSVSuite) TestFileRoundTrip() {
	dir := s.T().TempDir()
	path := dir + "/out.csv"

	rows := []*domain.SlotRow{
		{ID: "row-1", SlotType: domain.SlotHR, CompanyName: "Acme Incorporated"},
	}
	s.Require().NoError(intake.WriteRowsFile(path, rows))

	back, err := intake.ReadRowsFile(path)
	s.Require().NoError(err)
	s.Require().Len(back, 1)
	s.Equal(rows[0].ID, back[0].ID)
	s.Equal(rows[0].SlotType, back[0].SlotType)
	s.Equal(rows[0].CompanyName, back[0].CompanyName)
}
