package slot

import (
	"context"
	"database/sql"
	"fmt"

	"anchor/internal/domain"
)

// PostgresStore persists slot rows in PostgreSQL. Pure I/O; gate semantics
// live in the pipeline.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed row store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the slot_rows table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS slot_rows (
			id                    TEXT PRIMARY KEY,
			slot_type             TEXT NOT NULL,
			company_name          TEXT NOT NULL,
			company_id            TEXT NOT NULL DEFAULT '',
			person_name           TEXT NOT NULL DEFAULT '',
			person_id             TEXT NOT NULL DEFAULT '',
			linkedin_url          TEXT NOT NULL DEFAULT '',
			public_accessible     BOOLEAN NOT NULL DEFAULT FALSE,
			email                 TEXT NOT NULL DEFAULT '',
			email_pattern         TEXT NOT NULL DEFAULT '',
			email_verified        BOOLEAN NOT NULL DEFAULT FALSE,
			current_title         TEXT NOT NULL DEFAULT '',
			current_company       TEXT NOT NULL DEFAULT '',
			movement_hash         TEXT NOT NULL DEFAULT '',
			movement_detected     BOOLEAN NOT NULL DEFAULT FALSE,
			company_valid         BOOLEAN NOT NULL DEFAULT FALSE,
			company_reason        TEXT NOT NULL DEFAULT '',
			person_company_valid  BOOLEAN NOT NULL DEFAULT FALSE,
			person_company_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
			person_company_reason TEXT NOT NULL DEFAULT '',
			email_skip_reason     TEXT NOT NULL DEFAULT '',
			slot_complete         BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate slot rows: %w", err)
	}
	return nil
}

const slotColumns = `id, slot_type, company_name, company_id, person_name, person_id,
	linkedin_url, public_accessible, email, email_pattern, email_verified,
	current_title, current_company, movement_hash, movement_detected,
	company_valid, company_reason, person_company_valid, person_company_score,
	person_company_reason, email_skip_reason, slot_complete`

func (s *PostgresStore) Save(ctx context.Context, row *domain.SlotRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slot_rows (`+slotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			slot_type = EXCLUDED.slot_type,
			company_name = EXCLUDED.company_name,
			company_id = EXCLUDED.company_id,
			person_name = EXCLUDED.person_name,
			person_id = EXCLUDED.person_id,
			linkedin_url = EXCLUDED.linkedin_url,
			public_accessible = EXCLUDED.public_accessible,
			email = EXCLUDED.email,
			email_pattern = EXCLUDED.email_pattern,
			email_verified = EXCLUDED.email_verified,
			current_title = EXCLUDED.current_title,
			current_company = EXCLUDED.current_company,
			movement_hash = EXCLUDED.movement_hash,
			movement_detected = EXCLUDED.movement_detected,
			company_valid = EXCLUDED.company_valid,
			company_reason = EXCLUDED.company_reason,
			person_company_valid = EXCLUDED.person_company_valid,
			person_company_score = EXCLUDED.person_company_score,
			person_company_reason = EXCLUDED.person_company_reason,
			email_skip_reason = EXCLUDED.email_skip_reason,
			slot_complete = EXCLUDED.slot_complete
	`,
		row.ID.String(), string(row.SlotType), row.CompanyName, row.CompanyID.String(),
		row.PersonName, row.PersonID.String(), row.LinkedInURL, row.PublicAccessible,
		row.Email, row.EmailPattern, row.EmailVerified,
		row.CurrentTitle, row.CurrentCompany, row.MovementHash, row.MovementDetected,
		row.CompanyValid, row.CompanyReason, row.PersonCompanyValid, row.PersonCompanyScore,
		row.PersonCompanyReason, row.EmailSkipReason, row.SlotComplete,
	)
	if err != nil {
		return fmt.Errorf("save slot row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.RowID) (*domain.SlotRow, error) {
	row, err := scanSlotRow(s.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slot_rows WHERE id = $1`, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot row: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*domain.SlotRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+slotColumns+` FROM slot_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list slot rows: %w", err)
	}
	defer rows.Close()

	var out []*domain.SlotRow
	for rows.Next() {
		row, err := scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PreviousHashes(ctx context.Context) (map[domain.RowID]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, movement_hash FROM slot_rows WHERE movement_hash <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list movement hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[domain.RowID]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, fmt.Errorf("scan movement hash: %w", err)
		}
		hashes[domain.RowID(id)] = hash
	}
	return hashes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlotRow(scanner rowScanner) (*domain.SlotRow, error) {
	var r domain.SlotRow
	var id, slotType, companyID, personID string
	err := scanner.Scan(
		&id, &slotType, &r.CompanyName, &companyID, &r.PersonName, &personID,
		&r.LinkedInURL, &r.PublicAccessible, &r.Email, &r.EmailPattern, &r.EmailVerified,
		&r.CurrentTitle, &r.CurrentCompany, &r.MovementHash, &r.MovementDetected,
		&r.CompanyValid, &r.CompanyReason, &r.PersonCompanyValid, &r.PersonCompanyScore,
		&r.PersonCompanyReason, &r.EmailSkipReason, &r.SlotComplete,
	)
	if err != nil {
		return nil, err
	}
	r.ID = domain.RowID(id)
	r.SlotType = domain.SlotType(slotType)
	r.CompanyID = domain.CompanyID(companyID)
	r.PersonID = domain.PersonID(personID)
	return &r, nil
}
