package intake

import (
	"context"

	"anchor/internal/domain"
)

// RowStore is the persistence interface for slot rows. Whatever implements
// it must preserve the row's validity gates and movement hash exactly as the
// pipeline left them.
type RowStore interface {
	// Save upserts a row snapshot.
	Save(ctx context.Context, row *domain.SlotRow) error

	// Get returns a row by id, or nil when absent.
	Get(ctx context.Context, id domain.RowID) (*domain.SlotRow, error)

	// List returns all stored rows.
	List(ctx context.Context) ([]*domain.SlotRow, error)

	// PreviousHashes returns the stored movement hash per row id, feeding
	// the next batch's change detection.
	PreviousHashes(ctx context.Context) (map[domain.RowID]string, error)
}
