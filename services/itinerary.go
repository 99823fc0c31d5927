package services

import (
	"sort"
	"time"
	"trip-planner-server/models"
)

// WeatherInfo is the per-date forecast attached to a day, keyed by the
// YYYY-MM-DD date string.
type WeatherInfo struct {
	TempMax int    `json:"tempMax"`
	TempMin int    `json:"tempMin"`
	Icon    string `json:"icon"`
	Desc    string `json:"desc"`
}

// DaySchedule is the view-ready shape of one day: positional day number,
// date, optional weather and the day's plans in display order. DayID is nil
// when no Day row exists yet for that date; entries cannot be added until it
// does.
type DaySchedule struct {
	Day     int               `json:"day"`
	Date    string            `json:"date"`
	Weather *WeatherInfo      `json:"weather"`
	Plans   []models.Schedule `json:"plans"`
	DayID   *uint             `json:"dayId"`
}

// DatesInRange enumerates every calendar date from start to end inclusive.
// Unparseable bounds yield an empty list.
func DatesInRange(start, end string) []string {
	startDate, startErr := time.Parse("2006-01-02", start)
	endDate, endErr := time.Parse("2006-01-02", end)
	if startErr != nil || endErr != nil {
		return nil
	}

	var dates []string
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}

// BuildSchedule composes the trip's full day window. Every date in the span
// gets an output day whether or not a Day row exists for it, and day numbers
// are recomputed positionally — the stored day_number column is a
// denormalized cache and is never trusted here.
func BuildSchedule(trip models.Trip, weather map[string]WeatherInfo) []DaySchedule {
	dates := DatesInRange(trip.StartDate, trip.EndDate)

	days := make([]DaySchedule, 0, len(dates))
	for i, date := range dates {
		day := DaySchedule{
			Day:   i + 1,
			Date:  date,
			Plans: []models.Schedule{},
		}

		for j := range trip.Days {
			if trip.Days[j].Date != date {
				continue
			}
			id := trip.Days[j].ID
			day.DayID = &id
			day.Plans = sortPlans(trip.Days[j].Schedules)
			break
		}

		if info, ok := weather[date]; ok {
			w := info
			day.Weather = &w
		}

		days = append(days, day)
	}

	return days
}

// sortPlans orders a day's entries by display order; time only breaks ties
// between rows that were never explicitly ordered.
func sortPlans(plans []models.Schedule) []models.Schedule {
	sorted := make([]models.Schedule, len(plans))
	copy(sorted, plans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}
