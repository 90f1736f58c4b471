// Package access implements the access-control gate wrapping every
// trip-scoped operation. Authorization is a pure check: the gate never
// mutates state, and callers must invoke it before any mutation.
package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/errors"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

// Action enumerates the trip-scoped operations subject to authorization.
type Action string

const (
	ActionViewTrip         Action = "view_trip"
	ActionListMembers      Action = "list_members"
	ActionCreateExpense    Action = "create_expense"
	ActionEditExpense      Action = "edit_expense"
	ActionListExpenses     Action = "list_expenses"
	ActionViewAnalytics    Action = "view_analytics"
	ActionGenerateInvite   Action = "generate_invite"
	ActionViewInvite       Action = "view_invite"
	ActionDeactivateInvite Action = "deactivate_invite"
	ActionRemoveMember     Action = "remove_member"
	ActionArchiveTrip      Action = "archive_trip"
)

// roleCapabilities is the explicit capability set per role. The owner role is
// a strict superset of member.
var roleCapabilities = map[model.MemberRole]map[Action]bool{
	model.MemberRoleMember: {
		ActionViewTrip:      true,
		ActionListMembers:   true,
		ActionCreateExpense: true,
		ActionEditExpense:   true,
		ActionListExpenses:  true,
		ActionViewAnalytics: true,
	},
	model.MemberRoleOwner: {
		ActionViewTrip:         true,
		ActionListMembers:      true,
		ActionCreateExpense:    true,
		ActionEditExpense:      true,
		ActionListExpenses:     true,
		ActionViewAnalytics:    true,
		ActionGenerateInvite:   true,
		ActionViewInvite:       true,
		ActionDeactivateInvite: true,
		ActionRemoveMember:     true,
		ActionArchiveTrip:      true,
	},
}

// Gate authorizes trip-scoped actions against the membership store.
type Gate struct {
	memberships repository.MembershipRepository
}

// NewGate creates a new access-control gate.
func NewGate(memberships repository.MembershipRepository) *Gate {
	return &Gate{memberships: memberships}
}

// Authorize checks that the caller holds a membership for the trip and that
// the membership's role grants the requested action. An invite code never
// substitutes for membership. Returns the membership on success.
func (g *Gate) Authorize(ctx context.Context, tripID, userID uuid.UUID, action Action) (*model.Membership, error) {
	if userID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}

	membership, err := g.memberships.Find(ctx, tripID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotTripMember
		}
		return nil, err
	}

	if !roleCapabilities[membership.Role][action] {
		return nil, errors.ErrOwnerRequired
	}
	return membership, nil
}

// AuthorizeExpenseMutation checks that the caller created the expense. Trip
// ownership grants no override; the owner role carries no special expense-edit
// rights.
func (g *Gate) AuthorizeExpenseMutation(expense *model.Expense, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errors.ErrUnauthenticated
	}
	if expense.CreatedByUserID != userID {
		return errors.ErrNotExpenseCreator
	}
	return nil
}
