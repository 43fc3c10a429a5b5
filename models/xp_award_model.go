package models

import (
	"time"

	"github.com/google/uuid"
)

// XP award action kinds. The ledger is unique per (user, action, dedupe key),
// so an action meant to be granted at most once simply reuses its natural key.
const (
	XPActionRegistration    = "registration"
	XPActionCheckin         = "wellness_checkin"
	XPActionEventJoin       = "event_join"
	XPActionBuddyConnect    = "buddy_connect"
	XPActionRequestAccepted = "request_accepted"
	XPActionConversation    = "conversation_created"
	XPActionManual          = "manual"
)

type XPAward struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex:idx_xp_awards_dedupe" json:"userId"`
	Action    string    `gorm:"size:40;not null;uniqueIndex:idx_xp_awards_dedupe" json:"action"`
	DedupeKey string    `gorm:"size:80;not null;uniqueIndex:idx_xp_awards_dedupe" json:"-"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
