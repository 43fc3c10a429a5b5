package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	Branch       string         `gorm:"size:100" json:"branch"`
	Year         *int           `json:"year"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`
	Interests    pq.StringArray `gorm:"type:text[]" json:"interests"`
	Availability pq.StringArray `gorm:"type:text[]" json:"availability"`
	About        string         `gorm:"type:text" json:"about"`
	Avatar       string         `gorm:"size:512" json:"avatar"`

	XP                int         `gorm:"not null;default:0" json:"xp"`
	RegistrationBonus bool        `gorm:"default:false" json:"-"`
	MoodHistory       []MoodEntry `gorm:"foreignkey:UserID" json:"-"`

	LoginAttempts int        `gorm:"default:0" json:"-"`
	AccountLocked bool       `gorm:"default:false" json:"-"`
	LockUntil     *time.Time `json:"-"`
	LastLogin     *time.Time `json:"-"`

	Connections  []*User  `gorm:"many2many:user_connections;joinForeignKey:UserID;joinReferences:ConnectionID" json:"-"`
	JoinedEvents []*Event `gorm:"many2many:user_events;joinForeignKey:UserID;joinReferences:EventID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsLocked reports whether the account lockout is still in force.
func (u *User) IsLocked() bool {
	return u.AccountLocked && u.LockUntil != nil && u.LockUntil.After(time.Now())
}
