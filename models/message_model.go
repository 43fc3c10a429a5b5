package models

import (
	"time"

	"github.com/google/uuid"
)

// Message rows are immutable once written, so there is no UpdatedAt.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversationID uuid.UUID `gorm:"not null;index" json:"conversationId"`
	SenderID       uuid.UUID `gorm:"not null" json:"sender"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Delivered      bool      `gorm:"not null;default:false" json:"delivered"`

	// ClientKey dedupes the socket/REST double-write of the same message.
	ClientKey string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
