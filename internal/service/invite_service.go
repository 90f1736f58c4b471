package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/access"
	"tripwallet/internal/errors"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

const inviteCodeBytes = 9 // 12 characters once base64url-encoded

// JoinResult reports the outcome of redeeming an invite code.
type JoinResult struct {
	TripID        uuid.UUID
	AlreadyJoined bool
}

// InviteService manages trip invite codes. An invite grants the capability to
// join a trip, never read or write access by itself.
type InviteService interface {
	Generate(ctx context.Context, tripID, callerID uuid.UUID, expiresInHours *int) (*model.Invite, error)
	Current(ctx context.Context, tripID, callerID uuid.UUID) (*model.Invite, error)
	Redeem(ctx context.Context, code string, callerID uuid.UUID) (*JoinResult, error)
	Deactivate(ctx context.Context, tripID, callerID uuid.UUID) error
}

type inviteService struct {
	gate       *access.Gate
	inviteRepo repository.InviteRepository
	memberRepo repository.MembershipRepository
	now        func() time.Time
}

// NewInviteService creates a new invite service.
func NewInviteService(gate *access.Gate, inviteRepo repository.InviteRepository, memberRepo repository.MembershipRepository) InviteService {
	return &inviteService{
		gate:       gate,
		inviteRepo: inviteRepo,
		memberRepo: memberRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Generate creates a fresh invite code for the trip, deactivating any
// previous code. Owner-only. expiresInHours must be within [1, 720]; nil
// falls back to 24 hours.
func (s *inviteService) Generate(ctx context.Context, tripID, callerID uuid.UUID, expiresInHours *int) (*model.Invite, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionGenerateInvite); err != nil {
		return nil, err
	}

	if err := s.inviteRepo.DeactivateByTrip(ctx, tripID); err != nil {
		return nil, fmt.Errorf("deactivate previous invite: %w", err)
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}

	hours := 24
	if expiresInHours != nil {
		hours = *expiresInHours
	}
	expiresAt := s.now().Add(time.Duration(hours) * time.Hour)

	invite := &model.Invite{
		TripID:          tripID,
		Code:            code,
		ExpiresAt:       &expiresAt,
		IsActive:        true,
		CreatedByUserID: callerID,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	return invite, nil
}

// Current returns the trip's active, unexpired invite code. Owner-only; an
// expired or absent code reads as not found.
func (s *inviteService) Current(ctx context.Context, tripID, callerID uuid.UUID) (*model.Invite, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionViewInvite); err != nil {
		return nil, err
	}

	invite, err := s.inviteRepo.FindActiveByTrip(ctx, tripID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidInvite
		}
		return nil, err
	}
	if invite.IsExpired(s.now()) {
		return nil, errors.ErrInvalidInvite
	}
	return invite, nil
}

// Redeem joins the caller to the trip referenced by the code. Redeeming is
// idempotent: an existing membership is a no-op success. The code stays valid
// for other users; codes are never single-use.
func (s *inviteService) Redeem(ctx context.Context, code string, callerID uuid.UUID) (*JoinResult, error) {
	invite, err := s.inviteRepo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidInvite
		}
		return nil, err
	}

	if !invite.IsActive {
		return nil, errors.ErrInactiveInvite
	}
	if invite.IsExpired(s.now()) {
		return nil, errors.ErrExpiredInvite
	}

	if _, err := s.memberRepo.Find(ctx, invite.TripID, callerID); err == nil {
		return &JoinResult{TripID: invite.TripID, AlreadyJoined: true}, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	membership := &model.Membership{
		TripID:   invite.TripID,
		UserID:   callerID,
		Role:     model.MemberRoleMember,
		JoinedAt: s.now(),
	}
	if err := s.memberRepo.Create(ctx, membership); err != nil {
		// A concurrent redeem may have won the unique (trip, user) index.
		if err == gorm.ErrDuplicatedKey {
			return &JoinResult{TripID: invite.TripID, AlreadyJoined: true}, nil
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}
	return &JoinResult{TripID: invite.TripID, AlreadyJoined: false}, nil
}

// Deactivate disables the trip's current invite code. Owner-only.
func (s *inviteService) Deactivate(ctx context.Context, tripID, callerID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionDeactivateInvite); err != nil {
		return err
	}
	return s.inviteRepo.DeactivateByTrip(ctx, tripID)
}

// newInviteCode returns a URL-safe random token.
func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
