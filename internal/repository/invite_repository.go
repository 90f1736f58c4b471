package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/model"
)

// InviteRepository defines invite persistence operations.
type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	FindByCode(ctx context.Context, code string) (*model.Invite, error)
	FindActiveByTrip(ctx context.Context, tripID uuid.UUID) (*model.Invite, error)
	DeactivateByTrip(ctx context.Context, tripID uuid.UUID) error
}

type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository.
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

// Create creates a new invite.
func (r *inviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// FindByCode finds an invite by its code, active or not.
func (r *inviteRepository) FindByCode(ctx context.Context, code string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindActiveByTrip returns the trip's current active invite.
func (r *inviteRepository) FindActiveByTrip(ctx context.Context, tripID uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).
		Where("trip_id = ? AND is_active = ?", tripID, true).
		Order("created_at DESC").
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// DeactivateByTrip deactivates all active invites for a trip.
func (r *inviteRepository) DeactivateByTrip(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("trip_id = ? AND is_active = ?", tripID, true).
		Update("is_active", false).Error
}
