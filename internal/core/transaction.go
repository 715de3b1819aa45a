package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates the three kinds of money movement.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
	TypeAdvance TransactionType = "advance"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeAdvance:
		return true
	}
	return false
}

// Transaction is one dated, typed money movement inside a household.
//
// For advances, AdvanceToUserID empty means the household as a whole owes the
// payer (household-wide advance); a concrete user id means that member
// personally owes the payer (targeted advance).
type Transaction struct {
	ID              string
	HouseholdID     string
	Type            TransactionType
	Amount          decimal.Decimal
	OccurredOn      Date
	Category        CategoryKey
	Note            string
	PayerUserID     string // who physically paid; empty for income
	AdvanceToUserID string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsHouseholdAdvance reports whether this is an advance owed back by the
// household as a whole rather than by one member.
func (t Transaction) IsHouseholdAdvance() bool {
	return t.Type == TypeAdvance && t.AdvanceToUserID == ""
}

// Validate enforces the field invariants. It returns a FieldError wrapping
// one of the core sentinel errors.
func (t Transaction) Validate() error {
	if t.HouseholdID == "" {
		return fieldErr("householdId", ErrEmptyHousehold)
	}
	if !t.Type.Valid() {
		return fieldErr("type", ErrInvalidType)
	}
	if !t.Amount.IsPositive() {
		return fieldErr("amount", ErrNonPositiveAmount)
	}
	if t.OccurredOn.IsZero() {
		return fieldErr("occurredOn", ErrInvalidDate)
	}
	if !CategoryAllowed(t.Category, t.Type) {
		return fieldErr("category", ErrCategoryNotAllowed)
	}
	switch t.Type {
	case TypeExpense, TypeAdvance:
		if t.PayerUserID == "" {
			return fieldErr("payerUserId", ErrPayerRequired)
		}
	case TypeIncome:
		if t.AdvanceToUserID != "" {
			return fieldErr("advanceToUserId", ErrAdvanceTargetInvalid)
		}
	}
	if t.Type != TypeAdvance && t.AdvanceToUserID != "" {
		return fieldErr("advanceToUserId", ErrAdvanceTargetInvalid)
	}
	if t.Type == TypeAdvance && t.AdvanceToUserID != "" && t.AdvanceToUserID == t.PayerUserID {
		return fieldErr("advanceToUserId", ErrSelfAdvance)
	}
	return nil
}
