package services

import (
	"testing"
	"trip-planner-server/models"
)

func entriesWithLastTime(times ...string) []models.Schedule {
	entries := make([]models.Schedule, len(times))
	for i, t := range times {
		entries[i] = models.Schedule{Time: t, DisplayOrder: i}
	}
	return entries
}

func TestNextSlotTime(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.Schedule
		want    string
	}{
		{"empty day", nil, "10:00"},
		{"normal gap", entriesWithLastTime("09:00", "14:05"), "16:05"},
		{"clamps at end of day", entriesWithLastTime("22:30"), "23:30"},
		{"already clamped hour", entriesWithLastTime("23:00"), "23:00"},
		{"seconds tolerated", entriesWithLastTime("14:05:30"), "16:05"},
		{"out of range hour still parses", entriesWithLastTime("25:00"), "23:00"},
		{"garbage time", entriesWithLastTime("abc"), "12:00"},
		{"non-numeric fields", entriesWithLastTime("aa:bb"), "12:00"},
		{"empty time on last entry", entriesWithLastTime(""), "12:00"},
		{"only last entry matters", entriesWithLastTime("garbage", "11:30"), "13:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSlotTime(tt.entries); got != tt.want {
				t.Errorf("NextSlotTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
