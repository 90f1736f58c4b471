package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripwallet/internal/model"
)

// ExpenseFilter narrows an expense listing. All set fields compose as AND.
type ExpenseFilter struct {
	PaidBy   *uuid.UUID
	Category *string
	From     *time.Time // inclusive lower bound on expense_time
	To       *time.Time // inclusive upper bound on expense_time
}

// ExpenseRepository defines expense persistence operations.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Save(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, tripID, id uuid.UUID) (*model.Expense, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
	List(ctx context.Context, tripID uuid.UUID, filter ExpenseFilter) ([]model.Expense, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense record.
func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// Save persists all fields of an existing expense record.
func (r *expenseRepository) Save(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

// FindByID finds an expense by ID scoped to a trip.
func (r *expenseRepository) FindByID(ctx context.Context, tripID, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).
		Where("trip_id = ? AND id = ?", tripID, id).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete permanently removes an expense record.
func (r *expenseRepository) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("trip_id = ? AND id = ?", tripID, id).
		Delete(&model.Expense{}).Error
}

// List returns a trip's expenses matching the filter. Ordering is applied by
// the service layer; the query only guarantees trip scoping and filtering.
func (r *expenseRepository) List(ctx context.Context, tripID uuid.UUID, filter ExpenseFilter) ([]model.Expense, error) {
	query := r.db.WithContext(ctx).Where("trip_id = ?", tripID)
	if filter.PaidBy != nil {
		query = query.Where("paid_by_user_id = ?", *filter.PaidBy)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		query = query.Where("expense_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expense_time <= ?", *filter.To)
	}

	var expenses []model.Expense
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
