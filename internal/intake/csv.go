// Package intake turns raw intake files into slot rows and holds the row
// stores downstream collaborators read mutated rows from.
package intake

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"anchor/internal/domain"
	"anchor/pkg/derrors"
)

// ReadRows parses slot rows from CSV. Recognized headers: company, slot,
// person, linkedin, title, current_company. Unknown columns are ignored;
// missing ids are generated.
func ReadRows(r io.Reader) ([]*domain.SlotRow, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.SlotRow, 0, len(records))
	for i, rec := range records {
		slot, err := domain.ParseSlotType(strings.ToUpper(strings.TrimSpace(field(rec, header, "slot"))))
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeInvalidInput, fmt.Sprintf("row %d", i+2))
		}
		id := field(rec, header, "id")
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, &domain.SlotRow{
			ID:             domain.RowID(id),
			SlotType:       slot,
			CompanyName:    field(rec, header, "company"),
			PersonName:     field(rec, header, "person"),
			LinkedInURL:    field(rec, header, "linkedin"),
			CurrentTitle:   field(rec, header, "title"),
			CurrentCompany: field(rec, header, "current_company"),
		})
	}
	return rows, nil
}

// ReadCompanies parses the canonical company list from CSV with headers:
// id, name, domain, email_pattern.
func ReadCompanies(r io.Reader) ([]domain.CanonicalCompany, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}
	companies := make([]domain.CanonicalCompany, 0, len(records))
	for _, rec := range records {
		companies = append(companies, domain.CanonicalCompany{
			ID:           domain.CompanyID(field(rec, header, "id")),
			Name:         field(rec, header, "name"),
			Domain:       field(rec, header, "domain"),
			EmailPattern: field(rec, header, "email_pattern"),
		})
	}
	return companies, nil
}

// ReadPeople parses the canonical person list from CSV with headers: id,
// company_id, name, title, profile_url.
func ReadPeople(r io.Reader) ([]domain.CanonicalPerson, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}
	people := make([]domain.CanonicalPerson, 0, len(records))
	for _, rec := range records {
		people = append(people, domain.CanonicalPerson{
			ID:         domain.PersonID(field(rec, header, "id")),
			CompanyID:  domain.CompanyID(field(rec, header, "company_id")),
			FullName:   field(rec, header, "name"),
			Title:      field(rec, header, "title"),
			ProfileURL: field(rec, header, "profile_url"),
		})
	}
	return people, nil
}

// ReadRowsFile is ReadRows over a file path.
func ReadRowsFile(path string) ([]*domain.SlotRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidInput, "open intake file")
	}
	defer f.Close()
	return ReadRows(f)
}

// ReadCompaniesFile is ReadCompanies over a file path.
func ReadCompaniesFile(path string) ([]domain.CanonicalCompany, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidInput, "open companies file")
	}
	defer f.Close()
	return ReadCompanies(f)
}

// ReadPeopleFile is ReadPeople over a file path.
func ReadPeopleFile(path string) ([]domain.CanonicalPerson, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidInput, "open people file")
	}
	defer f.Close()
	return ReadPeople(f)
}

// WriteRows emits enriched rows as CSV, one line per row, gates and
// outcomes included.
func WriteRows(w io.Writer, rows []*domain.SlotRow) error {
	writer := csv.NewWriter(w)
	header := []string{
		"id", "slot", "company", "company_id", "company_valid", "company_reason",
		"person", "person_id", "person_company_valid", "person_company_score", "person_company_reason",
		"email", "email_verified", "email_pattern", "email_skip_reason",
		"movement_hash", "movement_detected", "slot_complete",
	}
	if err := writer.Write(header); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "write csv header")
	}
	for _, row := range rows {
		rec := []string{
			row.ID.String(),
			string(row.SlotType),
			row.CompanyName,
			row.CompanyID.String(),
			strconv.FormatBool(row.CompanyValid),
			row.CompanyReason,
			row.PersonName,
			row.PersonID.String(),
			strconv.FormatBool(row.PersonCompanyValid),
			strconv.FormatFloat(row.PersonCompanyScore, 'f', 2, 64),
			row.PersonCompanyReason,
			row.Email,
			strconv.FormatBool(row.EmailVerified),
			row.EmailPattern,
			row.EmailSkipReason,
			row.MovementHash,
			strconv.FormatBool(row.MovementDetected),
			strconv.FormatBool(row.SlotComplete),
		}
		if err := writer.Write(rec); err != nil {
			return derrors.Wrap(err, derrors.CodeInternal, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "flush csv")
	}
	return nil
}

// WriteRowsFile is WriteRows over a file path.
func WriteRowsFile(path string, rows []*domain.SlotRow) error {
	f, err := os.Create(path)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInvalidInput, "create output file")
	}
	defer f.Close()
	return WriteRows(f, rows)
}

func readAll(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, derrors.Wrap(err, derrors.CodeInvalidInput, "parse csv")
	}
	if len(all) == 0 {
		return nil, nil, derrors.New(derrors.CodeInvalidInput, "csv is empty")
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return all[1:], header, nil
}

func field(rec []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
