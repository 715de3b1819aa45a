package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerEventMessage(t *testing.T) {
	before := time.Now()
	msg := NewLedgerEventMessage("hh-1", KindTransaction, ActionCreated, "tx-42")
	after := time.Now()

	if msg.HouseholdID != "hh-1" {
		t.Errorf("HouseholdID = %q, want %q", msg.HouseholdID, "hh-1")
	}
	if msg.Kind != KindTransaction {
		t.Errorf("Kind = %q, want %q", msg.Kind, KindTransaction)
	}
	if msg.Action != ActionCreated {
		t.Errorf("Action = %q, want %q", msg.Action, ActionCreated)
	}
	if msg.EntityID != "tx-42" {
		t.Errorf("EntityID = %q, want %q", msg.EntityID, "tx-42")
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp %v not in [%v, %v]", msg.Timestamp, before, after)
	}
}

func TestLedgerEventMessage_JSON(t *testing.T) {
	msg := NewLedgerEventMessage("hh-1", KindSettlement, ActionDeleted, "st-7")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventMessageFromJSON() error = %v", err)
	}

	if got.HouseholdID != msg.HouseholdID || got.Kind != msg.Kind ||
		got.Action != msg.Action || got.EntityID != msg.EntityID {
		t.Errorf("round trip = %+v, want %+v", got, msg)
	}
}

func TestLedgerEventMessage_InvalidJSON(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestReminderMessage_JSON(t *testing.T) {
	msg := NewReminderMessage("hh-1", "rec-3", "home", "electricity", "2024-03-27")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ReminderMessageFromJSON(data)
	if err != nil {
		t.Fatalf("ReminderMessageFromJSON() error = %v", err)
	}

	if got.RecurringID != "rec-3" || got.DueOn != "2024-03-27" || got.Category != "home" {
		t.Errorf("round trip = %+v, want %+v", got, msg)
	}
}
