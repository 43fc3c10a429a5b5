package models

import (
	"time"

	"github.com/google/uuid"
)

type MoodEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"not null;index" json:"-"`
	Mood   string    `gorm:"size:40;not null" json:"mood"`
	Tip    string    `gorm:"type:text" json:"tip"`
	Date   time.Time `gorm:"not null" json:"date"`
}
