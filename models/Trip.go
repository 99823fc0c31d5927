package models

import (
	"gorm.io/gorm"
)

type Trip struct {
	gorm.Model
	UserID    uint     `json:"userID"`
	Title     string   `json:"title" gorm:"not null"`
	Location  string   `json:"location"` // city name, e.g. "Jeju"
	Country   string   `json:"country"`
	Theme     string   `json:"theme"`
	StartDate string   `json:"startDate" gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	EndDate   string   `json:"endDate" gorm:"type:varchar(10);not null"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status" gorm:"type:varchar(20);default:'PLANNED'"`

	Days       []Day           `json:"days" gorm:"constraint:OnDelete:CASCADE"`
	Notes      []TripNote      `json:"notes" gorm:"constraint:OnDelete:CASCADE"`
	Tips       []TripTip       `json:"tips" gorm:"constraint:OnDelete:CASCADE"`
	Preference *TripPreference `json:"preference" gorm:"constraint:OnDelete:CASCADE"`
}
