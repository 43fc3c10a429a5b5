package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Event struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Date        string         `gorm:"size:40;not null" json:"date"`
	Time        string         `gorm:"size:40;not null" json:"time"`
	Location    string         `gorm:"size:255;not null" json:"location"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Description string         `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
