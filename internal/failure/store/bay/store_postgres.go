package bay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"anchor/internal/failure"
)

// PostgresStore persists failure records in PostgreSQL. This store is pure
// I/O; routing policy lives in the router.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed bay store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the bay table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS failure_bays (
			id         TEXT PRIMARY KEY,
			bay        TEXT NOT NULL,
			category   TEXT NOT NULL,
			reason     TEXT NOT NULL,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS failure_bays_bay_idx ON failure_bays (bay, created_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate failure bays: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, bay string, rec failure.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal failure record: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO failure_bays (id, bay, category, reason, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, bay, string(rec.Category), rec.Reason, payload, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append failure record: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, bay string, limit int) ([]failure.Record, error) {
	query := `SELECT record FROM failure_bays WHERE bay = $1 ORDER BY created_at`
	args := []any{bay}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bay %s: %w", bay, err)
	}
	defer rows.Close()

	var records []failure.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan failure record: %w", err)
		}
		var rec failure.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal failure record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Bays(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT bay FROM failure_bays ORDER BY bay`)
	if err != nil {
		return nil, fmt.Errorf("list bays: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan bay name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, bay string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM failure_bays WHERE bay = $1`, bay).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bay %s: %w", bay, err)
	}
	return count, nil
}
