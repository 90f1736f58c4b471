package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SplitMode describes how an expense is divided among trip members.
type SplitMode string

const (
	SplitModeEqual  SplitMode = "equal"
	SplitModeCustom SplitMode = "custom"
)

// UUIDList is a JSON-encoded list of user IDs stored in a single column.
type UUIDList []uuid.UUID

// Value implements driver.Valuer.
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for UUIDList: %T", value)
	}
}

// Contains reports whether the list includes the given ID.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, item := range l {
		if item == id {
			return true
		}
	}
	return false
}

// DecimalMap is a JSON-encoded map of user ID to decimal amount stored in a
// single column. Keys are user IDs in string form.
type DecimalMap map[string]decimal.Decimal

// Value implements driver.Valuer.
func (m DecimalMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *DecimalMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for DecimalMap: %T", value)
	}
}

// Expense represents a single expense recorded against a trip.
//
// Invariants: Currency equals the trip's base currency if and only if
// FxRateToBase is 1, and AmountInBase is always Amount * FxRateToBase rounded
// to the base currency's minor-unit precision. TripID is immutable after
// creation; only the creating user may modify or delete the record.
type Expense struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	TripID          uuid.UUID       `json:"trip_id" gorm:"type:char(36);not null;index:idx_trip_expense_time"`
	CreatedByUserID uuid.UUID       `json:"created_by_user_id" gorm:"type:char(36);not null;index"`
	PaidByUserID    uuid.UUID       `json:"paid_by_user_id" gorm:"type:char(36);not null;index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(20,6);not null"`
	Currency        string          `json:"currency" gorm:"type:char(3);not null"`
	FxRateToBase    decimal.Decimal `json:"fx_rate_to_base" gorm:"type:decimal(20,10);not null"`
	AmountInBase    decimal.Decimal `json:"amount_in_base" gorm:"type:decimal(20,6);not null"`
	Category        string          `json:"category" gorm:"size:255;not null;index"`
	Note            string          `json:"note,omitempty" gorm:"type:text"`
	SplitMode       SplitMode       `json:"split_mode" gorm:"type:varchar(20);not null;default:'equal'"`
	SplitWithUsers  UUIDList        `json:"split_with_user_ids" gorm:"type:json"`
	CustomSplits    DecimalMap      `json:"custom_split_amounts,omitempty" gorm:"type:json"`
	ExpenseTime     time.Time       `json:"expense_time" gorm:"not null;index:idx_trip_expense_time"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
