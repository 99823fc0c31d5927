package services

import (
	"fmt"
	"strconv"
	"strings"
	"trip-planner-server/models"
)

const (
	defaultSlotTime  = "10:00"
	fallbackSlotTime = "12:00"
	slotGapHours     = 2
)

// NextSlotTime proposes a start time for a new entry appended to the given
// day, which must already be in display order. The result is advisory; the
// caller may overwrite it before saving.
//
// Empty day -> 10:00. Otherwise the last entry's time plus two hours, with
// the hour clamped to 23 (no rollover into the next day). Accepts "HH:MM"
// and "HH:MM:SS"; anything unparseable yields 12:00 instead of an error.
func NextSlotTime(entries []models.Schedule) string {
	if len(entries) == 0 {
		return defaultSlotTime
	}

	last := entries[len(entries)-1].Time
	if last == "" {
		last = defaultSlotTime
	}

	parts := strings.Split(last, ":")
	if len(parts) < 2 {
		return fallbackSlotTime
	}

	hour, hourErr := strconv.Atoi(parts[0])
	minute, minuteErr := strconv.Atoi(parts[1])
	if hourErr != nil || minuteErr != nil || hour < 0 || minute < 0 {
		return fallbackSlotTime
	}

	hour += slotGapHours
	if hour >= 24 {
		hour = 23
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}
