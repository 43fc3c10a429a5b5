package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

type ConnectionRequest struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FromID  uuid.UUID `gorm:"not null;index" json:"from"`
	ToID    uuid.UUID `gorm:"not null;index:idx_connection_requests_to_status" json:"to"`
	Status  string    `gorm:"size:20;not null;default:'pending';index:idx_connection_requests_to_status" json:"status"`
	Message string    `gorm:"size:256" json:"message"`

	From User `gorm:"foreignkey:FromID" json:"-"`
	To   User `gorm:"foreignkey:ToID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
