package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invite grants the capability to join a trip. It never grants read or write
// access by itself; access always flows through a Membership row. Codes are
// reusable by multiple users until deactivated or expired.
type Invite struct {
	ID              uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	TripID          uuid.UUID  `json:"trip_id" gorm:"type:char(36);not null;index"`
	Code            string     `json:"code" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsActive        bool       `json:"is_active" gorm:"default:true;index"`
	CreatedByUserID uuid.UUID  `json:"created_by_user_id" gorm:"type:char(36);not null"`
	CreatedAt       time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the invite is past its expiry at the given time.
// Invites without an expiry never expire.
func (i *Invite) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
