package models

import (
	"gorm.io/gorm"
)

type TripNote struct {
	gorm.Model
	TripID  uint   `json:"tripID" gorm:"index;not null"`
	UserID  uint   `json:"userID"`
	Title   string `json:"title"`
	Content string `json:"content" gorm:"type:text"`
}
