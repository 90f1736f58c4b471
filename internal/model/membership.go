package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRole represents the role a user holds within a trip.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Membership links a user to a trip. A user has at most one membership per
// trip; the owner membership is created in the same transaction as the trip.
type Membership struct {
	ID       uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	TripID   uuid.UUID  `json:"trip_id" gorm:"type:char(36);not null;uniqueIndex:idx_trip_user"`
	UserID   uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_trip_user;index"`
	Role     MemberRole `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	Nickname string     `json:"nickname,omitempty" gorm:"size:255"`
	JoinedAt time.Time  `json:"joined_at" gorm:"not null"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsOwner reports whether the membership carries the owner role.
func (m *Membership) IsOwner() bool {
	return m.Role == MemberRoleOwner
}
