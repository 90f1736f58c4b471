package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripwallet/internal/access"
	"tripwallet/internal/model"
	"tripwallet/internal/repository"
)

// Summary is a read-side projection over a trip's expense ledger. All sums
// are in the trip's base currency. Each map contains only keys with at least
// one expense; never zero-filled entries.
type Summary struct {
	TotalSpendingInBase decimal.Decimal
	ByMember            map[string]decimal.Decimal // keyed by paid_by user ID
	ByCategory          map[string]decimal.Decimal
	ByDay               map[string]decimal.Decimal // keyed by UTC calendar date, YYYY-MM-DD
}

// AnalyticsService computes aggregates over the live ledger. Results are
// recomputed on every call; nothing is cached or materialized.
type AnalyticsService interface {
	Summary(ctx context.Context, tripID, callerID uuid.UUID) (*Summary, error)
	// Personal restricts the summary to expenses the caller created.
	Personal(ctx context.Context, tripID, callerID uuid.UUID) (*Summary, error)
}

type analyticsService struct {
	gate        *access.Gate
	expenseRepo repository.ExpenseRepository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(gate *access.Gate, expenseRepo repository.ExpenseRepository) AnalyticsService {
	return &analyticsService{gate: gate, expenseRepo: expenseRepo}
}

// Summary aggregates all of the trip's expenses.
func (s *analyticsService) Summary(ctx context.Context, tripID, callerID uuid.UUID) (*Summary, error) {
	expenses, err := s.load(ctx, tripID, callerID)
	if err != nil {
		return nil, err
	}
	return computeSummary(expenses), nil
}

// Personal aggregates the expenses created by the caller. The by-member
// breakdown within the result stays keyed by paid_by.
func (s *analyticsService) Personal(ctx context.Context, tripID, callerID uuid.UUID) (*Summary, error) {
	expenses, err := s.load(ctx, tripID, callerID)
	if err != nil {
		return nil, err
	}
	var mine []model.Expense
	for _, e := range expenses {
		if e.CreatedByUserID == callerID {
			mine = append(mine, e)
		}
	}
	return computeSummary(mine), nil
}

func (s *analyticsService) load(ctx context.Context, tripID, callerID uuid.UUID) ([]model.Expense, error) {
	if _, err := s.gate.Authorize(ctx, tripID, callerID, access.ActionViewAnalytics); err != nil {
		return nil, err
	}
	return s.expenseRepo.List(ctx, tripID, repository.ExpenseFilter{})
}

// computeSummary rolls the ledger up by payer, category and calendar day.
// Sums stay in decimal the whole way; binary floating point never enters.
func computeSummary(expenses []model.Expense) *Summary {
	summary := &Summary{
		TotalSpendingInBase: decimal.Zero,
		ByMember:            make(map[string]decimal.Decimal),
		ByCategory:          make(map[string]decimal.Decimal),
		ByDay:               make(map[string]decimal.Decimal),
	}

	for _, e := range expenses {
		summary.TotalSpendingInBase = summary.TotalSpendingInBase.Add(e.AmountInBase)

		member := e.PaidByUserID.String()
		summary.ByMember[member] = summary.ByMember[member].Add(e.AmountInBase)

		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.AmountInBase)

		day := e.ExpenseTime.UTC().Format("2006-01-02")
		summary.ByDay[day] = summary.ByDay[day].Add(e.AmountInBase)
	}

	return summary
}
