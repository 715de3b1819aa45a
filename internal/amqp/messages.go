package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event kinds and actions carried on the wire.
const (
	KindTransaction = "transaction"
	KindSettlement  = "settlement"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LedgerEventMessage is a lightweight notification that a household's ledger
// changed. It carries only identifiers; the worker fetches current state from
// the database when it recomputes balances.
type LedgerEventMessage struct {
	HouseholdID string    `json:"householdId"`
	Kind        string    `json:"kind"`
	Action      string    `json:"action"`
	EntityID    string    `json:"entityId"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(householdID, kind, action, entityID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		HouseholdID: householdID,
		Kind:        kind,
		Action:      action,
		EntityID:    entityID,
		Timestamp:   time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReminderMessage asks the household to enter this month's amount for a
// variable recurring expense. Variable templates never materialize
// transactions on their own.
type ReminderMessage struct {
	HouseholdID string    `json:"householdId"`
	RecurringID string    `json:"recurringId"`
	Category    string    `json:"category"`
	Note        string    `json:"note"`
	DueOn       string    `json:"dueOn"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewReminderMessage(householdID, recurringID, category, note, dueOn string) *ReminderMessage {
	return &ReminderMessage{
		HouseholdID: householdID,
		RecurringID: recurringID,
		Category:    category,
		Note:        note,
		DueOn:       dueOn,
		Timestamp:   time.Now(),
	}
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
