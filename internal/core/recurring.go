package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringExpenseType says how a template turns into spending.
type RecurringExpenseType string

const (
	// RecurringFixed templates materialize an expense transaction
	// automatically on their due day (rent, subscriptions).
	RecurringFixed RecurringExpenseType = "fixed"
	// RecurringVariable templates only surface a reminder; the amount
	// differs every month so a member enters the expense by hand.
	RecurringVariable RecurringExpenseType = "variable"
)

func (t RecurringExpenseType) Valid() bool {
	return t == RecurringFixed || t == RecurringVariable
}

// RecurringExpense is a monthly template that feeds the transaction ledger.
type RecurringExpense struct {
	ID             string
	HouseholdID    string
	Amount         decimal.Decimal
	DayOfMonth     int
	Category       CategoryKey
	Note           string
	PayerUserID    string
	IsActive       bool
	ExpenseType    RecurringExpenseType
	LastExecutedOn Date
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate enforces the template invariants.
func (r RecurringExpense) Validate() error {
	if r.HouseholdID == "" {
		return fieldErr("householdId", ErrEmptyHousehold)
	}
	if !r.Amount.IsPositive() {
		return fieldErr("amount", ErrNonPositiveAmount)
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fieldErr("dayOfMonth", ErrInvalidDate)
	}
	if !CategoryAllowed(r.Category, TypeExpense) {
		return fieldErr("category", ErrCategoryNotAllowed)
	}
	if r.PayerUserID == "" {
		return fieldErr("payerUserId", ErrPayerRequired)
	}
	if !r.ExpenseType.Valid() {
		return fieldErr("expenseType", ErrInvalidType)
	}
	return nil
}

// DueDay returns the template's target day for the given month, clamped to
// the month's length (a day-31 template is due on Feb 29 in a leap year).
func (r RecurringExpense) DueDay(year int, month time.Month) int {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if r.DayOfMonth > lastDay {
		return lastDay
	}
	return r.DayOfMonth
}

// DueAt reports whether the template should fire at the given time: once per
// calendar month, on or after the (clamped) target day.
func (r RecurringExpense) DueAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if !r.LastExecutedOn.IsZero() &&
		r.LastExecutedOn.Time.Year() == now.Year() &&
		r.LastExecutedOn.Time.Month() == now.Month() {
		return false
	}
	return now.Day() >= r.DueDay(now.Year(), now.Month())
}
