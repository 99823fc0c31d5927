package services

import (
	"testing"
	"trip-planner-server/models"

	"gorm.io/gorm"
)

func orderedEntries(ids ...uint) []models.Schedule {
	entries := make([]models.Schedule, len(ids))
	for i, id := range ids {
		entries[i] = models.Schedule{Model: gorm.Model{ID: id}, DisplayOrder: i}
	}
	return entries
}

func idsOf(entries []models.Schedule) []uint {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestReorderMovesEntry(t *testing.T) {
	entries := orderedEntries(10, 20, 30)

	reordered, patch := Reorder(entries, 2, 0)

	wantIDs := []uint{30, 10, 20}
	for i, id := range idsOf(reordered) {
		if id != wantIDs[i] {
			t.Fatalf("reordered ids = %v, want %v", idsOf(reordered), wantIDs)
		}
	}

	if len(patch) != 3 {
		t.Fatalf("patch covers %d rows, want 3", len(patch))
	}
	for i, row := range patch {
		if row.Order != i {
			t.Errorf("patch[%d].Order = %d, want dense %d", i, row.Order, i)
		}
		if row.ID != wantIDs[i] {
			t.Errorf("patch[%d].ID = %d, want %d", i, row.ID, wantIDs[i])
		}
		if reordered[i].DisplayOrder != i {
			t.Errorf("reordered[%d].DisplayOrder = %d, want %d", i, reordered[i].DisplayOrder, i)
		}
	}
}

func TestReorderMoveForward(t *testing.T) {
	entries := orderedEntries(1, 2, 3, 4)

	reordered, patch := Reorder(entries, 0, 2)

	wantIDs := []uint{2, 3, 1, 4}
	got := idsOf(reordered)
	for i := range wantIDs {
		if got[i] != wantIDs[i] {
			t.Fatalf("reordered ids = %v, want %v", got, wantIDs)
		}
	}
	if len(patch) != 4 {
		t.Fatalf("patch covers %d rows, want 4", len(patch))
	}
}

func TestReorderNoOp(t *testing.T) {
	entries := orderedEntries(1, 2, 3)

	for _, tc := range []struct {
		name     string
		from, to int
	}{
		{"same position", 1, 1},
		{"from out of range", 3, 0},
		{"to out of range", 0, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reordered, patch := Reorder(entries, tc.from, tc.to)
			if patch != nil {
				t.Errorf("patch = %v, want nil", patch)
			}
			if len(reordered) != 3 || reordered[0].ID != 1 {
				t.Errorf("reordered = %v, want input unchanged", idsOf(reordered))
			}
		})
	}
}

func TestReorderDoesNotMutateInput(t *testing.T) {
	entries := orderedEntries(1, 2, 3)

	Reorder(entries, 2, 0)

	for i, entry := range entries {
		if entry.DisplayOrder != i {
			t.Fatalf("input entry %d mutated: DisplayOrder = %d", i, entry.DisplayOrder)
		}
	}
	if entries[0].ID != 1 || entries[2].ID != 3 {
		t.Fatalf("input order mutated: %v", idsOf(entries))
	}
}

func TestNextDisplayOrder(t *testing.T) {
	if got := NextDisplayOrder(nil); got != 0 {
		t.Errorf("empty day: got %d, want 0", got)
	}

	entries := orderedEntries(1, 2, 3)
	if got := NextDisplayOrder(entries); got != 3 {
		t.Errorf("dense day: got %d, want 3", got)
	}

	// gaps don't matter, only the max does
	entries[2].DisplayOrder = 7
	if got := NextDisplayOrder(entries); got != 8 {
		t.Errorf("gapped day: got %d, want 8", got)
	}
}
