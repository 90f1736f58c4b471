package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tripwallet/internal/access"
	"tripwallet/internal/currency"
	"tripwallet/internal/errors"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

// ExpenseCreateInput carries the fields for a new expense. PaidByUserID
// defaults to the caller when nil.
type ExpenseCreateInput struct {
	Amount             decimal.Decimal
	Currency           string
	FxRateToBase       *decimal.Decimal
	Category           string
	Note               string
	ExpenseTime        time.Time
	PaidByUserID       *uuid.UUID
	SplitMode          model.SplitMode
	SplitWithUserIDs   []uuid.UUID
	CustomSplitAmounts map[string]decimal.Decimal
}

// ExpenseUpdateInput carries a partial update; nil fields are left unchanged.
type ExpenseUpdateInput struct {
	Amount             *decimal.Decimal
	Currency           *string
	FxRateToBase       *decimal.Decimal
	Category           *string
	Note               *string
	ExpenseTime        *time.Time
	PaidByUserID       *uuid.UUID
	SplitMode          *model.SplitMode
	SplitWithUserIDs   *[]uuid.UUID
	CustomSplitAmounts *map[string]decimal.Decimal
}

// ExpenseService owns the per-trip expense ledger, including normalization of
// amounts into the trip's base currency.
type ExpenseService interface {
	Create(ctx context.Context, tripID, callerID uuid.UUID, input ExpenseCreateInput) (*model.Expense, error)
	Update(ctx context.Context, tripID, expenseID, callerID uuid.UUID, input ExpenseUpdateInput) (*model.Expense, error)
	Delete(ctx context.Context, tripID, expenseID, callerID uuid.UUID) error
	List(ctx context.Context, tripID, callerID uuid.UUID, filter repository.ExpenseFilter) ([]model.Expense, error)
}

type expenseService struct {
	gate        *access.Gate
	tripRepo    repository.TripRepository
	memberRepo  repository.MembershipRepository
	expenseRepo repository.ExpenseRepository
	// Mutex map for per-trip write serialization
	tripMutexes sync.Map
	now         func() time.Time
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	gate *access.Gate,
	tripRepo repository.TripRepository,
	memberRepo repository.MembershipRepository,
	expenseRepo repository.ExpenseRepository,
) ExpenseService {
	return &expenseService{
		gate:        gate,
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// getMutex returns a mutex for a specific trip ID. Writes against the same
// trip are serialized so concurrent edits never interleave partial updates.
func (s *expenseService) getMutex(tripID uuid.UUID) *sync.Mutex {
	value, _ := s.tripMutexes.LoadOrStore(tripID.String(), &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Create records a new expense on the trip's ledger.
func (s *expenseService) Create(ctx context.Context, tripID, callerID uuid.UUID, input ExpenseCreateInput) (*model.Expense, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionCreateExpense); err != nil {
		return nil, err
	}

	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.IsArchived() {
		return nil, errors.ErrTripArchived
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	code, ok := currency.Normalize(input.Currency)
	if !ok {
		return nil, errors.ErrInvalidCurrency
	}
	fx, err := resolveFxRate(code, trip.BaseCurrency, input.FxRateToBase, nil)
	if err != nil {
		return nil, err
	}

	payerID := callerID
	if input.PaidByUserID != nil {
		payerID = *input.PaidByUserID
	}
	if payerID != callerID {
		if _, err := s.memberRepo.Find(ctx, tripID, payerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrInvalidPayer
			}
			return nil, err
		}
	}

	splitMode := input.SplitMode
	if splitMode == "" {
		splitMode = model.SplitModeEqual
	}
	splitWith, customSplits, err := s.normalizeSplit(ctx, tripID, input.Amount, splitMode, input.SplitWithUserIDs, input.CustomSplitAmounts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := &model.Expense{
		TripID:          tripID,
		CreatedByUserID: callerID,
		PaidByUserID:    payerID,
		Amount:          input.Amount,
		Currency:        code,
		FxRateToBase:    fx,
		AmountInBase:    currency.ConvertToBase(input.Amount, fx, trip.BaseCurrency),
		Category:        input.Category,
		Note:            input.Note,
		SplitMode:       splitMode,
		SplitWithUsers:  splitWith,
		CustomSplits:    customSplits,
		ExpenseTime:     input.ExpenseTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	mutex := s.getMutex(tripID)
	mutex.Lock()
	defer mutex.Unlock()

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

// Update applies a partial update to an expense. Only the creating user may
// update it; unspecified fields are left unchanged. Currency normalization is
// re-applied whenever amount, currency or fx rate change.
func (s *expenseService) Update(ctx context.Context, tripID, expenseID, callerID uuid.UUID, input ExpenseUpdateInput) (*model.Expense, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionEditExpense); err != nil {
		return nil, err
	}

	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.IsArchived() {
		return nil, errors.ErrTripArchived
	}

	mutex := s.getMutex(tripID)
	mutex.Lock()
	defer mutex.Unlock()

	expense, err := s.expenseRepo.FindByID(ctx, tripID, expenseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}
	if err := s.gate.AuthorizeExpenseMutation(expense, callerID); err != nil {
		return nil, err
	}

	amount := expense.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	code := expense.Currency
	if input.Currency != nil {
		normalized, ok := currency.Normalize(*input.Currency)
		if !ok {
			return nil, errors.ErrInvalidCurrency
		}
		code = normalized
	}

	prevFx := expense.FxRateToBase
	currencyChanged := code != expense.Currency
	fx, err := resolveFxRate(code, trip.BaseCurrency, input.FxRateToBase, carriedFx(prevFx, currencyChanged))
	if err != nil {
		return nil, err
	}

	payerID := expense.PaidByUserID
	if input.PaidByUserID != nil {
		payerID = *input.PaidByUserID
		if _, err := s.memberRepo.Find(ctx, tripID, payerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrInvalidPayer
			}
			return nil, err
		}
	}

	splitMode := expense.SplitMode
	if input.SplitMode != nil {
		splitMode = *input.SplitMode
	}
	splitWith := []uuid.UUID(expense.SplitWithUsers)
	if input.SplitWithUserIDs != nil {
		splitWith = *input.SplitWithUserIDs
	}
	customSplits := map[string]decimal.Decimal(expense.CustomSplits)
	if input.CustomSplitAmounts != nil {
		customSplits = *input.CustomSplitAmounts
	}
	normalizedSplit, normalizedCustom, err := s.normalizeSplit(ctx, tripID, amount, splitMode, splitWith, customSplits)
	if err != nil {
		return nil, err
	}

	expense.Amount = amount
	expense.Currency = code
	expense.FxRateToBase = fx
	expense.AmountInBase = currency.ConvertToBase(amount, fx, trip.BaseCurrency)
	expense.PaidByUserID = payerID
	expense.SplitMode = splitMode
	expense.SplitWithUsers = normalizedSplit
	expense.CustomSplits = normalizedCustom
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Note != nil {
		expense.Note = *input.Note
	}
	if input.ExpenseTime != nil {
		expense.ExpenseTime = *input.ExpenseTime
	}
	expense.UpdatedAt = s.now()

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

// Delete permanently removes an expense. Only the creating user may delete it.
func (s *expenseService) Delete(ctx context.Context, tripID, expenseID, callerID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionEditExpense); err != nil {
		return err
	}

	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.IsArchived() {
		return errors.ErrTripArchived
	}

	mutex := s.getMutex(tripID)
	mutex.Lock()
	defer mutex.Unlock()

	expense, err := s.expenseRepo.FindByID(ctx, tripID, expenseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrExpenseNotFound
		}
		return err
	}
	if err := s.gate.AuthorizeExpenseMutation(expense, callerID); err != nil {
		return err
	}

	return s.expenseRepo.Delete(ctx, tripID, expenseID)
}

// List returns the trip's expenses matching the filter, newest first.
func (s *expenseService) List(ctx context.Context, tripID, callerID uuid.UUID, filter repository.ExpenseFilter) ([]model.Expense, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionListExpenses); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.List(ctx, tripID, filter)
	if err != nil {
		return nil, err
	}
	sortExpenses(expenses)
	return expenses, nil
}

// sortExpenses orders by expense_time descending, ties broken by created_at
// descending, then id ascending, so listings are deterministic.
func sortExpenses(expenses []model.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if !a.ExpenseTime.Equal(b.ExpenseTime) {
			return a.ExpenseTime.After(b.ExpenseTime)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// resolveFxRate applies the currency normalization rule: expenses in the base
// currency always carry a rate of 1; any other currency needs a positive
// caller-supplied rate. carried is the previous rate, usable only when the
// currency did not change on update.
func resolveFxRate(code, baseCurrency string, supplied, carried *decimal.Decimal) (decimal.Decimal, error) {
	if code == baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if supplied != nil {
		if supplied.LessThanOrEqual(decimal.Zero) {
			return decimal.Decimal{}, errors.ErrMissingFxRate
		}
		return *supplied, nil
	}
	if carried != nil && carried.GreaterThan(decimal.Zero) {
		return *carried, nil
	}
	return decimal.Decimal{}, errors.ErrMissingFxRate
}

// carriedFx returns the previous fx rate when the currency is unchanged, nil
// otherwise. Switching currency invalidates the old rate, so a fresh one must
// be supplied.
func carriedFx(prev decimal.Decimal, currencyChanged bool) *decimal.Decimal {
	if currencyChanged {
		return nil
	}
	return &prev
}

// normalizeSplit validates split data against the trip's member set. Equal
// mode splits across the chosen members (all members when unspecified);
// custom mode requires non-negative per-user amounts covering exactly the
// chosen members and summing to the expense amount.
func (s *expenseService) normalizeSplit(
	ctx context.Context,
	tripID uuid.UUID,
	amount decimal.Decimal,
	mode model.SplitMode,
	splitWith []uuid.UUID,
	customSplits map[string]decimal.Decimal,
) (model.UUIDList, model.DecimalMap, error) {
	if mode != model.SplitModeEqual && mode != model.SplitModeCustom {
		return nil, nil, errors.ErrInvalidSplit
	}

	memberships, err := s.memberRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	members := make(map[uuid.UUID]bool, len(memberships))
	for _, m := range memberships {
		members[m.UserID] = true
	}

	chosen := splitWith
	if len(chosen) == 0 {
		chosen = make([]uuid.UUID, 0, len(memberships))
		for _, m := range memberships {
			chosen = append(chosen, m.UserID)
		}
	}
	if len(chosen) == 0 {
		return nil, nil, errors.ErrInvalidSplit
	}
	for _, id := range chosen {
		if !members[id] {
			return nil, nil, errors.ErrInvalidSplit
		}
	}

	if mode == model.SplitModeEqual {
		return model.UUIDList(chosen), nil, nil
	}

	if len(customSplits) == 0 {
		return nil, nil, errors.ErrInvalidSplit
	}

	chosenSet := make(map[string]bool, len(chosen))
	for _, id := range chosen {
		chosenSet[id.String()] = true
	}
	sum := decimal.Zero
	normalized := make(model.DecimalMap, len(customSplits))
	for key, value := range customSplits {
		id, err := uuid.Parse(key)
		if err != nil || !members[id] {
			return nil, nil, errors.ErrInvalidSplit
		}
		if value.IsNegative() {
			return nil, nil, errors.ErrInvalidSplit
		}
		if !chosenSet[id.String()] {
			return nil, nil, errors.ErrInvalidSplit
		}
		normalized[id.String()] = value
		sum = sum.Add(value)
	}
	if len(normalized) != len(chosenSet) {
		return nil, nil, errors.ErrInvalidSplit
	}
	if !sum.Equal(amount) {
		return nil, nil, errors.ErrInvalidSplit
	}

	return model.UUIDList(chosen), normalized, nil
}

func (s *expenseService) findTrip(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}
