package services

import (
	"trip-planner-server/models"
	"trip-planner-server/storage"

	"gorm.io/gorm"
)

// OrderPatch is one row of the batched order-update primitive: the entry id
// and its new 0-based display order.
type OrderPatch struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// Reorder moves the entry at from to position to within one day's ordered
// list and returns the new list plus the persistence patch. The patch covers
// the whole day with a dense 0..N-1 sequence, so storage never ends up with
// duplicate or gapped display orders. from == to (or an out-of-range index)
// is a no-op: the input is returned unchanged and the patch is nil.
//
// The input slice is not mutated; callers keep it as the last known-good
// order to revert to if persisting the patch fails.
func Reorder(entries []models.Schedule, from, to int) ([]models.Schedule, []OrderPatch) {
	n := len(entries)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return entries, nil
	}

	reordered := make([]models.Schedule, 0, n)
	reordered = append(reordered, entries[:from]...)
	reordered = append(reordered, entries[from+1:]...)

	// insert the moved entry back at its target slot
	reordered = append(reordered, models.Schedule{})
	copy(reordered[to+1:], reordered[to:])
	reordered[to] = entries[from]

	patch := make([]OrderPatch, n)
	for i := range reordered {
		reordered[i].DisplayOrder = i
		patch[i] = OrderPatch{ID: reordered[i].ID, Order: i}
	}

	return reordered, patch
}

// NextDisplayOrder returns the display order for an entry appended at the end
// of the day's current list: max existing + 1, or 0 for an empty day.
func NextDisplayOrder(entries []models.Schedule) int {
	next := 0
	for _, entry := range entries {
		if entry.DisplayOrder >= next {
			next = entry.DisplayOrder + 1
		}
	}
	return next
}

// ApplyOrderPatch persists a reorder patch in a single transaction. All rows
// are written or none are, so a failure leaves the stored order untouched and
// the caller can simply revert its in-memory list.
func ApplyOrderPatch(patch []OrderPatch) error {
	if len(patch) == 0 {
		return nil
	}

	return storage.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range patch {
			if err := tx.Model(&models.Schedule{}).
				Where("id = ?", row.ID).
				Update("display_order", row.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
