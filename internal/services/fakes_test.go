package services

import (
	"context"
	"errors"
	"fmt"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

var errStoreDown = errors.New("store down")

// fakeStore is an in-memory implementation of the storage ports.
type fakeStore struct {
	transactions map[string]core.Transaction
	settlements  map[string]core.Settlement
	members      []core.Member
	recurring    []core.RecurringExpense
	executed     map[string]core.Date
	households   []string
	failWrites   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string]core.Transaction),
		settlements:  make(map[string]core.Settlement),
		executed:     make(map[string]core.Date),
	}
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	if f.failWrites {
		return errStoreDown
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if f.failWrites {
		return errStoreDown
	}
	if _, ok := f.transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %s not found", t.ID)
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, _, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	if _, ok := f.transactions[id]; !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) GetTransaction(_ context.Context, _, id string) (core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s not found", id)
	}
	return t, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, householdID string, from, to core.Date) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.HouseholdID != householdID {
			continue
		}
		day := t.OccurredOn.String()
		if day < from.String() || day > to.String() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) ListAdvances(_ context.Context, householdID string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.HouseholdID == householdID && t.Type == core.TypeAdvance {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSettlement(_ context.Context, s core.Settlement) error {
	if f.failWrites {
		return errStoreDown
	}
	f.settlements[s.ID] = s
	return nil
}

func (f *fakeStore) DeleteSettlement(_ context.Context, _, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	if _, ok := f.settlements[id]; !ok {
		return fmt.Errorf("settlement %s not found", id)
	}
	delete(f.settlements, id)
	return nil
}

func (f *fakeStore) GetSettlement(_ context.Context, _, id string) (core.Settlement, error) {
	s, ok := f.settlements[id]
	if !ok {
		return core.Settlement{}, fmt.Errorf("settlement %s not found", id)
	}
	return s, nil
}

func (f *fakeStore) ListSettlements(_ context.Context, householdID string) ([]core.Settlement, error) {
	var out []core.Settlement
	for _, s := range f.settlements {
		if s.HouseholdID == householdID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMembers(_ context.Context, _ string) ([]core.Member, error) {
	return f.members, nil
}

func (f *fakeStore) ListActiveRecurringExpenses(_ context.Context) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	for _, re := range f.recurring {
		if re.IsActive {
			out = append(out, re)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkRecurringExecuted(_ context.Context, id string, on core.Date) error {
	f.executed[id] = on
	return nil
}

func (f *fakeStore) CreateHousehold(_ context.Context, id, name string) error {
	if f.failWrites {
		return errStoreDown
	}
	f.households = append(f.households, id+"/"+name)
	return nil
}

func (f *fakeStore) AddMember(_ context.Context, _ string, m core.Member) error {
	if f.failWrites {
		return errStoreDown
	}
	for i, existing := range f.members {
		if existing.UserID == m.UserID {
			f.members[i] = m
			return nil
		}
	}
	f.members = append(f.members, m)
	return nil
}

func (f *fakeStore) CreateRecurringExpense(_ context.Context, re core.RecurringExpense) error {
	if f.failWrites {
		return errStoreDown
	}
	f.recurring = append(f.recurring, re)
	return nil
}

func (f *fakeStore) UpdateRecurringExpense(_ context.Context, re core.RecurringExpense) error {
	if f.failWrites {
		return errStoreDown
	}
	for i, existing := range f.recurring {
		if existing.ID == re.ID {
			f.recurring[i] = re
			return nil
		}
	}
	return fmt.Errorf("recurring expense %s not found", re.ID)
}

func (f *fakeStore) DeleteRecurringExpense(_ context.Context, _, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	for i, existing := range f.recurring {
		if existing.ID == id {
			f.recurring = append(f.recurring[:i], f.recurring[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("recurring expense %s not found", id)
}

func (f *fakeStore) ListRecurringExpenses(_ context.Context, householdID string) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	for _, re := range f.recurring {
		if re.HouseholdID == householdID {
			out = append(out, re)
		}
	}
	return out, nil
}

// fakePublisher records published events and reminders.
type fakePublisher struct {
	events    []string
	reminders []*amqp.ReminderMessage
	fail      bool
}

func (f *fakePublisher) PublishLedgerEvent(_ context.Context, householdID, kind, action, entityID string) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, fmt.Sprintf("%s/%s/%s", householdID, kind, action))
	return nil
}

func (f *fakePublisher) PublishReminder(_ context.Context, msg *amqp.ReminderMessage) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.reminders = append(f.reminders, msg)
	return nil
}
