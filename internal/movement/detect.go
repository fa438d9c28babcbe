package movement

import (
	"time"

	"anchor/internal/domain"
)

// Detect reports whether a row moved relative to a previously stored hash.
// An empty previous hash is a first observation, which is "no movement", not
// "moved".
func Detect(previous, current string) bool {
	if previous == "" {
		return false
	}
	return previous != current
}

// Observe recomputes the row's hash, updates MovementHash and
// MovementDetected in place, and returns whether movement was detected.
func (e *Engine) Observe(row *domain.SlotRow, now time.Time) (bool, error) {
	current, err := e.Hash(row, now)
	if err != nil {
		return false, err
	}
	moved := Detect(row.MovementHash, current)
	row.MovementHash = current
	row.MovementDetected = moved
	return moved, nil
}

// ChangedRows returns the ids of rows whose hash differs from the previous
// batch's hash, or that were never hashed before. Batch consumers treat new
// observations as interesting even though per-row detection does not.
func (e *Engine) ChangedRows(rows []*domain.SlotRow, previous map[domain.RowID]string, now time.Time) ([]domain.RowID, error) {
	var changed []domain.RowID
	for _, row := range rows {
		current, err := e.Hash(row, now)
		if err != nil {
			return nil, err
		}
		prev, seen := previous[row.ID]
		if !seen || prev != current {
			changed = append(changed, row.ID)
		}
	}
	return changed, nil
}
