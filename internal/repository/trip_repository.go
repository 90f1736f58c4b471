package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/model"
)

// TripRepository defines trip persistence operations.
type TripRepository interface {
	// CreateWithOwner creates the trip and its owner membership in a single
	// transaction so one never exists without the other.
	CreateWithOwner(ctx context.Context, trip *model.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Trip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TripStatus) error
}

type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

// CreateWithOwner creates a trip along with its owner membership atomically.
func (r *tripRepository) CreateWithOwner(ctx context.Context, trip *model.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		membership := &model.Membership{
			TripID:   trip.ID,
			UserID:   trip.OwnerUserID,
			Role:     model.MemberRoleOwner,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(membership).Error
	})
}

// FindByID finds a trip by ID.
func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListByUserID lists trips the user holds a membership for.
func (r *tripRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Trip, error) {
	var trips []model.Trip
	err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.trip_id = trips.id").
		Where("memberships.user_id = ?", userID).
		Order("trips.created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// UpdateStatus updates the trip's lifecycle status.
func (r *tripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TripStatus) error {
	return r.db.WithContext(ctx).Model(&model.Trip{}).
		Where("id = ?", id).
		Update("status", status).Error
}
