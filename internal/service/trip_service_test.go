package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"tripwallet/internal/access"
	"tripwallet/internal/errors"
	"tripwallet/internal/model"
)

func newTripServiceForTest(tripRepo *MockTripRepository, memberRepo *MockMembershipRepository, userRepo *MockUserRepository) TripService {
	return NewTripService(access.NewGate(memberRepo), tripRepo, memberRepo, userRepo)
}

func TestTripService_CreateTrip(t *testing.T) {
	ownerID := uuid.New()

	t.Run("normalizes the base currency", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		tripRepo.On("CreateWithOwner", mock.Anything, mock.AnythingOfType("*model.Trip")).Return(nil)

		svc := newTripServiceForTest(tripRepo, new(MockMembershipRepository), new(MockUserRepository))
		trip, err := svc.CreateTrip(context.Background(), ownerID, "Lisbon", "eur", nil, nil)

		assert.NoError(t, err)
		assert.Equal(t, "EUR", trip.BaseCurrency)
		assert.Equal(t, ownerID, trip.OwnerUserID)
		assert.Equal(t, model.TripStatusActive, trip.Status)
		tripRepo.AssertExpectations(t)
	})

	t.Run("rejects malformed currency codes", func(t *testing.T) {
		svc := newTripServiceForTest(new(MockTripRepository), new(MockMembershipRepository), new(MockUserRepository))

		_, err := svc.CreateTrip(context.Background(), ownerID, "Lisbon", "euros", nil, nil)
		assert.Equal(t, errors.ErrInvalidCurrency, err)
	})
}

func TestTripService_ArchiveTrip(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()

	t.Run("owner archives an active trip", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		tripRepo.On("FindByID", mock.Anything, tripID).
			Return(&model.Trip{ID: tripID, OwnerUserID: ownerID, Status: model.TripStatusActive}, nil)
		tripRepo.On("UpdateStatus", mock.Anything, tripID, model.TripStatusArchived).Return(nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		trip, err := svc.ArchiveTrip(context.Background(), tripID, ownerID)

		assert.NoError(t, err)
		assert.Equal(t, model.TripStatusArchived, trip.Status)
	})

	t.Run("member may not archive", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, memberID).
			Return(&model.Membership{TripID: tripID, UserID: memberID, Role: model.MemberRoleMember}, nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		_, err := svc.ArchiveTrip(context.Background(), tripID, memberID)

		assert.Equal(t, errors.ErrOwnerRequired, err)
	})

	t.Run("archiving twice fails", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		tripRepo.On("FindByID", mock.Anything, tripID).
			Return(&model.Trip{ID: tripID, OwnerUserID: ownerID, Status: model.TripStatusArchived}, nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		_, err := svc.ArchiveTrip(context.Background(), tripID, ownerID)

		assert.Equal(t, errors.ErrTripArchived, err)
	})
}

func TestTripService_ListMembers(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	mateID := uuid.New()

	memberRepo := new(MockMembershipRepository)
	userRepo := new(MockUserRepository)
	memberRepo.On("Find", mock.Anything, tripID, mateID).
		Return(&model.Membership{TripID: tripID, UserID: mateID, Role: model.MemberRoleMember}, nil)
	memberRepo.On("ListByTrip", mock.Anything, tripID).Return([]model.Membership{
		{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner},
		{TripID: tripID, UserID: mateID, Role: model.MemberRoleMember, Nickname: "Bobby"},
	}, nil)
	userRepo.On("FindByIDs", mock.Anything, []uuid.UUID{ownerID, mateID}).Return([]model.User{
		{ID: ownerID, DisplayName: "Alice"},
		{ID: mateID, DisplayName: "Bob"},
	}, nil)

	svc := newTripServiceForTest(new(MockTripRepository), memberRepo, userRepo)
	members, err := svc.ListMembers(context.Background(), tripID, mateID)

	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.Equal(t, model.MemberRoleOwner, members[0].Role)
	assert.Equal(t, "Bobby", members[1].Nickname)
}

func TestTripService_RemoveMember(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	mateID := uuid.New()

	t.Run("owner removes a member", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		tripRepo.On("FindByID", mock.Anything, tripID).
			Return(&model.Trip{ID: tripID, OwnerUserID: ownerID}, nil)
		memberRepo.On("Delete", mock.Anything, tripID, mateID).Return(nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		assert.NoError(t, svc.RemoveMember(context.Background(), tripID, ownerID, mateID))
		memberRepo.AssertExpectations(t)
	})

	t.Run("owner membership is not removable", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		tripRepo.On("FindByID", mock.Anything, tripID).
			Return(&model.Trip{ID: tripID, OwnerUserID: ownerID}, nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		err := svc.RemoveMember(context.Background(), tripID, ownerID, ownerID)

		assert.Equal(t, errors.ErrCannotRemoveOwner, err)
		memberRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("member may not remove anyone", func(t *testing.T) {
		tripRepo := new(MockTripRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, mateID).
			Return(&model.Membership{TripID: tripID, UserID: mateID, Role: model.MemberRoleMember}, nil)

		svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
		err := svc.RemoveMember(context.Background(), tripID, mateID, ownerID)

		assert.Equal(t, errors.ErrOwnerRequired, err)
	})
}

func TestTripService_GetTrip_NotFound(t *testing.T) {
	tripID := uuid.New()
	userID := uuid.New()

	tripRepo := new(MockTripRepository)
	memberRepo := new(MockMembershipRepository)
	memberRepo.On("Find", mock.Anything, tripID, userID).
		Return(&model.Membership{TripID: tripID, UserID: userID, Role: model.MemberRoleMember}, nil)
	tripRepo.On("FindByID", mock.Anything, tripID).Return(nil, gorm.ErrRecordNotFound)

	svc := newTripServiceForTest(tripRepo, memberRepo, new(MockUserRepository))
	_, err := svc.GetTrip(context.Background(), tripID, userID)

	assert.Equal(t, errors.ErrTripNotFound, err)
}
