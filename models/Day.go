package models

import (
	"gorm.io/gorm"
)

// Day is one calendar date inside a trip's span. Days are created together
// with the trip (one per date) and afterwards only appended at the end; only
// the trailing day can be removed, so day numbers stay contiguous.
type Day struct {
	gorm.Model
	TripID    uint   `json:"tripID" gorm:"index;not null"`
	DayNumber int    `json:"dayNumber"` // denormalized cache; display order is recomputed positionally
	Date      string `json:"date" gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	DayTheme  string `json:"dayTheme"`

	Schedules []Schedule `json:"schedules" gorm:"constraint:OnDelete:CASCADE"`
}
