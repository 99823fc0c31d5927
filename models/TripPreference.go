package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TripPreference feeds the bulk AI generator: who travels, at what pace and
// around which flight times the itinerary has to fit.
type TripPreference struct {
	gorm.Model
	TripID            uint           `json:"tripID" gorm:"uniqueIndex;not null"`
	CompanionType     string         `json:"companionType"` // "solo", "couple", "family", "friends"
	PacePreference    string         `json:"pacePreference"`
	AccommodationType string         `json:"accommodationType"`
	Interests         datatypes.JSON `json:"interests"` // JSON array of strings
	FlightOutDept     string         `json:"flightOutDept" gorm:"type:varchar(8)"`
	FlightOutArr      string         `json:"flightOutArr" gorm:"type:varchar(8)"`
	FlightInDept      string         `json:"flightInDept" gorm:"type:varchar(8)"`
	FlightInArr       string         `json:"flightInArr" gorm:"type:varchar(8)"`
}
