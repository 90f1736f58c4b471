package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/model"
)

// MembershipRepository defines membership persistence operations.
type MembershipRepository interface {
	Create(ctx context.Context, membership *model.Membership) error
	Find(ctx context.Context, tripID, userID uuid.UUID) (*model.Membership, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]model.Membership, error)
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership.
func (r *membershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// Find returns the membership for a (trip, user) pair.
func (r *membershipRepository) Find(ctx context.Context, tripID, userID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	if err := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByTrip lists all memberships for a trip, oldest first.
func (r *membershipRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// Delete removes the membership for a (trip, user) pair.
func (r *membershipRepository) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Delete(&model.Membership{}).Error
}
