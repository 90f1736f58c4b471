package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripStatus represents the lifecycle status of a trip.
type TripStatus string

const (
	TripStatusActive   TripStatus = "active"
	TripStatusArchived TripStatus = "archived"
)

// Trip represents a shared trip with a single base currency.
// All analytics for a trip are normalized into BaseCurrency.
type Trip struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerUserID  uuid.UUID  `json:"owner_user_id" gorm:"type:char(36);not null;index"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	BaseCurrency string     `json:"base_currency" gorm:"type:char(3);not null"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Status       TripStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations. The trip exclusively owns its memberships, invites and
	// expenses; deleting a trip cascades to all three.
	Owner       User         `json:"-" gorm:"foreignKey:OwnerUserID"`
	Memberships []Membership `json:"-" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Invites     []Invite     `json:"-" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Expenses    []Expense    `json:"-" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsArchived reports whether the trip has reached its terminal state.
func (t *Trip) IsArchived() bool {
	return t.Status == TripStatusArchived
}
