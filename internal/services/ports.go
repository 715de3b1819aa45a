package services

import (
	"context"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// LedgerStore is the persistence surface for transactions.
type LedgerStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, householdID, id string) error
	GetTransaction(ctx context.Context, householdID, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, householdID string, from, to core.Date) ([]core.Transaction, error)
	ListAdvances(ctx context.Context, householdID string) ([]core.Transaction, error)
}

// SettlementStore is the persistence surface for settlements.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, s core.Settlement) error
	DeleteSettlement(ctx context.Context, householdID, id string) error
	GetSettlement(ctx context.Context, householdID, id string) (core.Settlement, error)
	ListSettlements(ctx context.Context, householdID string) ([]core.Settlement, error)
}

// MemberDirectory resolves household membership. Balances are labelled and
// household-wide splits enumerated from it.
type MemberDirectory interface {
	ListMembers(ctx context.Context, householdID string) ([]core.Member, error)
}

// RecurringStore is the persistence surface the recurring processor needs.
type RecurringStore interface {
	ListActiveRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error)
	MarkRecurringExecuted(ctx context.Context, id string, on core.Date) error
}

// RecurringAdminStore is the management surface for recurring templates.
type RecurringAdminStore interface {
	CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) error
	UpdateRecurringExpense(ctx context.Context, re core.RecurringExpense) error
	DeleteRecurringExpense(ctx context.Context, householdID, id string) error
	ListRecurringExpenses(ctx context.Context, householdID string) ([]core.RecurringExpense, error)
}

// HouseholdStore manages households and their membership.
type HouseholdStore interface {
	CreateHousehold(ctx context.Context, id, name string) error
	AddMember(ctx context.Context, householdID string, m core.Member) error
	ListMembers(ctx context.Context, householdID string) ([]core.Member, error)
}

// EventPublisher notifies downstream consumers of ledger changes.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, householdID, kind, action, entityID string) error
}

// ReminderPublisher delivers variable-expense reminders.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}
