package models

import (
	"gorm.io/gorm"
)

type TripTip struct {
	gorm.Model
	TripID      uint   `json:"tripID" gorm:"index;not null"`
	UserID      *uint  `json:"userID"`
	Text        string `json:"text" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
}
