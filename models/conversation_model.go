package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// PairKey is the canonical encoding of the unordered participant pair.
	// Its unique index is what guarantees at most one conversation per pair.
	PairKey     string `gorm:"size:80;not null;uniqueIndex" json:"-"`
	LastMessage string `gorm:"type:text" json:"lastMessage"`

	Participants []*User `gorm:"many2many:conversation_participants" json:"participants,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasParticipant reports whether the user belongs to this conversation.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID uuid.UUID) (uuid.UUID, bool) {
	for _, p := range c.Participants {
		if p.ID != userID {
			return p.ID, true
		}
	}
	return uuid.Nil, false
}
