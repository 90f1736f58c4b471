package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/access"
	"tripwallet/internal/currency"
	"tripwallet/internal/errors"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

// TripMember is a membership enriched with the user's display name.
type TripMember struct {
	UserID      uuid.UUID        `json:"user_id"`
	Role        model.MemberRole `json:"role"`
	DisplayName string           `json:"display_name"`
	Nickname    string           `json:"nickname,omitempty"`
	JoinedAt    time.Time        `json:"joined_at"`
}

// TripService handles trip lifecycle and membership operations.
type TripService interface {
	CreateTrip(ctx context.Context, ownerID uuid.UUID, name, baseCurrency string, startDate, endDate *time.Time) (*model.Trip, error)
	GetTrip(ctx context.Context, tripID, callerID uuid.UUID) (*model.Trip, error)
	ListTrips(ctx context.Context, callerID uuid.UUID) ([]model.Trip, error)
	ArchiveTrip(ctx context.Context, tripID, callerID uuid.UUID) (*model.Trip, error)
	ListMembers(ctx context.Context, tripID, callerID uuid.UUID) ([]TripMember, error)
	RemoveMember(ctx context.Context, tripID, callerID, userID uuid.UUID) error
}

type tripService struct {
	gate       *access.Gate
	tripRepo   repository.TripRepository
	memberRepo repository.MembershipRepository
	userRepo   repository.UserRepository
}

// NewTripService creates a new trip service.
func NewTripService(
	gate *access.Gate,
	tripRepo repository.TripRepository,
	memberRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
) TripService {
	return &tripService{
		gate:       gate,
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// CreateTrip creates a trip with the caller as owner. The owner membership is
// created atomically with the trip.
func (s *tripService) CreateTrip(ctx context.Context, ownerID uuid.UUID, name, baseCurrency string, startDate, endDate *time.Time) (*model.Trip, error) {
	code, ok := currency.Normalize(baseCurrency)
	if !ok {
		return nil, errors.ErrInvalidCurrency
	}

	trip := &model.Trip{
		OwnerUserID:  ownerID,
		Name:         name,
		BaseCurrency: code,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       model.TripStatusActive,
	}
	if err := s.tripRepo.CreateWithOwner(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return trip, nil
}

// GetTrip returns a trip visible to the caller.
func (s *tripService) GetTrip(ctx context.Context, tripID, callerID uuid.UUID) (*model.Trip, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionViewTrip); err != nil {
		return nil, err
	}
	return s.findTrip(ctx, tripID)
}

// ListTrips returns trips the caller belongs to.
func (s *tripService) ListTrips(ctx context.Context, callerID uuid.UUID) ([]model.Trip, error) {
	return s.tripRepo.ListByUserID(ctx, callerID)
}

// ArchiveTrip transitions a trip to archived. The transition is owner-only
// and terminal.
func (s *tripService) ArchiveTrip(ctx context.Context, tripID, callerID uuid.UUID) (*model.Trip, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionArchiveTrip); err != nil {
		return nil, err
	}

	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.IsArchived() {
		return nil, errors.ErrTripArchived
	}

	if err := s.tripRepo.UpdateStatus(ctx, tripID, model.TripStatusArchived); err != nil {
		return nil, fmt.Errorf("archive trip: %w", err)
	}
	trip.Status = model.TripStatusArchived
	return trip, nil
}

// ListMembers returns the trip's members with display names.
func (s *tripService) ListMembers(ctx context.Context, tripID, callerID uuid.UUID) ([]TripMember, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionListMembers); err != nil {
		return nil, err
	}

	memberships, err := s.memberRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName
	}

	members := make([]TripMember, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, TripMember{
			UserID:      m.UserID,
			Role:        m.Role,
			DisplayName: names[m.UserID],
			Nickname:    m.Nickname,
			JoinedAt:    m.JoinedAt,
		})
	}
	return members, nil
}

// RemoveMember removes a member from the trip. Owner-only; the owner's own
// membership can never be removed.
func (s *tripService) RemoveMember(ctx context.Context, tripID, callerID, userID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionRemoveMember); err != nil {
		return err
	}

	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if userID == trip.OwnerUserID {
		return errors.ErrCannotRemoveOwner
	}

	return s.memberRepo.Delete(ctx, tripID, userID)
}

func (s *tripService) findTrip(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}
