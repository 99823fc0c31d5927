package models

import (
	"gorm.io/gorm"
)

// Icon keys a schedule entry may carry. The key doubles as the category
// shown on the card (plane = transfer, star = sight, heart = other).
var IconKeys = []string{"plane", "hotel", "food", "coffee", "shopping", "nature", "car", "star", "heart"}

type Schedule struct {
	gorm.Model
	DayID         uint     `json:"dayID" gorm:"index;not null"`
	Time          string   `json:"time" gorm:"type:varchar(8)"` // "HH:MM", display only
	TimeEnd       string   `json:"timeEnd" gorm:"type:varchar(8)"`
	Activity      string   `json:"activity" gorm:"not null"`
	Description   string   `json:"description" gorm:"type:text"`
	Icon          string   `json:"icon" gorm:"type:varchar(20)"`
	Tips          string   `json:"tips" gorm:"type:text"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	DisplayOrder  int      `json:"displayOrder" gorm:"default:0"` // authoritative order within the day
	IsAiGenerated bool     `json:"isAiGenerated" gorm:"default:false"`
	Status        string   `json:"status" gorm:"type:varchar(20);default:'PLANNED'"`
}
