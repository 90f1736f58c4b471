package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"tripwallet/internal/access"
	"tripwallet/internal/errors"
	"tripwallet/internal/model"
)

func newInviteService(inviteRepo *MockInviteRepository, memberRepo *MockMembershipRepository, now time.Time) *inviteService {
	gate := access.NewGate(memberRepo)
	svc := NewInviteService(gate, inviteRepo, memberRepo).(*inviteService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestInviteService_Generate(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)

	t.Run("owner generates a fresh code, deactivating the previous one", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		inviteRepo.On("DeactivateByTrip", mock.Anything, tripID).Return(nil)
		inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Invite")).Return(nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		invite, err := svc.Generate(context.Background(), tripID, ownerID, nil)

		assert.NoError(t, err)
		assert.Len(t, invite.Code, 12)
		assert.True(t, invite.IsActive)
		assert.NotNil(t, invite.ExpiresAt)
		assert.Equal(t, now.Add(24*time.Hour), *invite.ExpiresAt)
		inviteRepo.AssertExpectations(t)
	})

	t.Run("explicit expiry hours set the deadline", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		inviteRepo.On("DeactivateByTrip", mock.Anything, tripID).Return(nil)
		inviteRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Invite")).Return(nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		hours := 72
		invite, err := svc.Generate(context.Background(), tripID, ownerID, &hours)

		assert.NoError(t, err)
		assert.NotNil(t, invite.ExpiresAt)
		assert.Equal(t, now.Add(72*time.Hour), *invite.ExpiresAt)
	})

	t.Run("plain member may not generate", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, memberID).
			Return(&model.Membership{TripID: tripID, UserID: memberID, Role: model.MemberRoleMember}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Generate(context.Background(), tripID, memberID, nil)

		assert.Equal(t, errors.ErrOwnerRequired, err)
		inviteRepo.AssertNotCalled(t, "DeactivateByTrip", mock.Anything, mock.Anything)
	})
}

func TestInviteService_Current(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("owner reads the active code", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		inviteRepo.On("FindActiveByTrip", mock.Anything, tripID).
			Return(&model.Invite{TripID: tripID, Code: "abc123", IsActive: true, ExpiresAt: &future}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		invite, err := svc.Current(context.Background(), tripID, ownerID)

		assert.NoError(t, err)
		assert.Equal(t, "abc123", invite.Code)
	})

	t.Run("no active code reads as not found", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		inviteRepo.On("FindActiveByTrip", mock.Anything, tripID).Return(nil, gorm.ErrRecordNotFound)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Current(context.Background(), tripID, ownerID)

		assert.Equal(t, errors.ErrInvalidInvite, err)
	})

	t.Run("expired code reads as not found", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, ownerID).
			Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
		inviteRepo.On("FindActiveByTrip", mock.Anything, tripID).
			Return(&model.Invite{TripID: tripID, Code: "late", IsActive: true, ExpiresAt: &past}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Current(context.Background(), tripID, ownerID)

		assert.Equal(t, errors.ErrInvalidInvite, err)
	})

	t.Run("plain member may not read the code", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		memberRepo.On("Find", mock.Anything, tripID, memberID).
			Return(&model.Membership{TripID: tripID, UserID: memberID, Role: model.MemberRoleMember}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Current(context.Background(), tripID, memberID)

		assert.Equal(t, errors.ErrOwnerRequired, err)
		inviteRepo.AssertNotCalled(t, "FindActiveByTrip", mock.Anything, mock.Anything)
	})
}

func TestInviteService_Redeem(t *testing.T) {
	tripID := uuid.New()
	userID := uuid.New()
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("unknown code", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Redeem(context.Background(), "nope", userID)

		assert.Equal(t, errors.ErrInvalidInvite, err)
	})

	t.Run("inactive code", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "old").
			Return(&model.Invite{TripID: tripID, Code: "old", IsActive: false}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Redeem(context.Background(), "old", userID)

		assert.Equal(t, errors.ErrInactiveInvite, err)
	})

	t.Run("expired code", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "late").
			Return(&model.Invite{TripID: tripID, Code: "late", IsActive: true, ExpiresAt: &past}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		_, err := svc.Redeem(context.Background(), "late", userID)

		assert.Equal(t, errors.ErrExpiredInvite, err)
	})

	t.Run("new member joins", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "abc123").
			Return(&model.Invite{TripID: tripID, Code: "abc123", IsActive: true, ExpiresAt: &future}, nil)
		memberRepo.On("Find", mock.Anything, tripID, userID).Return(nil, gorm.ErrRecordNotFound)
		memberRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Membership) bool {
			return m.TripID == tripID && m.UserID == userID && m.Role == model.MemberRoleMember
		})).Return(nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		result, err := svc.Redeem(context.Background(), "abc123", userID)

		assert.NoError(t, err)
		assert.Equal(t, tripID, result.TripID)
		assert.False(t, result.AlreadyJoined)
		memberRepo.AssertExpectations(t)
	})

	t.Run("redeeming twice is a no-op", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "abc123").
			Return(&model.Invite{TripID: tripID, Code: "abc123", IsActive: true, ExpiresAt: &future}, nil)
		memberRepo.On("Find", mock.Anything, tripID, userID).
			Return(&model.Membership{TripID: tripID, UserID: userID, Role: model.MemberRoleMember}, nil)

		svc := newInviteService(inviteRepo, memberRepo, now)
		result, err := svc.Redeem(context.Background(), "abc123", userID)

		assert.NoError(t, err)
		assert.True(t, result.AlreadyJoined)
		memberRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("losing a concurrent redeem still succeeds", func(t *testing.T) {
		inviteRepo := new(MockInviteRepository)
		memberRepo := new(MockMembershipRepository)
		inviteRepo.On("FindByCode", mock.Anything, "abc123").
			Return(&model.Invite{TripID: tripID, Code: "abc123", IsActive: true, ExpiresAt: &future}, nil)
		memberRepo.On("Find", mock.Anything, tripID, userID).Return(nil, gorm.ErrRecordNotFound)
		memberRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Membership")).Return(gorm.ErrDuplicatedKey)

		svc := newInviteService(inviteRepo, memberRepo, now)
		result, err := svc.Redeem(context.Background(), "abc123", userID)

		assert.NoError(t, err)
		assert.True(t, result.AlreadyJoined)
	})
}

func TestInviteService_Deactivate(t *testing.T) {
	tripID := uuid.New()
	ownerID := uuid.New()
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)

	inviteRepo := new(MockInviteRepository)
	memberRepo := new(MockMembershipRepository)
	memberRepo.On("Find", mock.Anything, tripID, ownerID).
		Return(&model.Membership{TripID: tripID, UserID: ownerID, Role: model.MemberRoleOwner}, nil)
	inviteRepo.On("DeactivateByTrip", mock.Anything, tripID).Return(nil)

	svc := newInviteService(inviteRepo, memberRepo, now)
	assert.NoError(t, svc.Deactivate(context.Background(), tripID, ownerID))
	inviteRepo.AssertExpectations(t)
}
