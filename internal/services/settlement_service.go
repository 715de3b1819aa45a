package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// ErrActorNotParty is returned when the acting user is neither side of the
// settlement.
var ErrActorNotParty = errors.New("acting user must be a party to the settlement")

// SettlementService records and undoes settlements. Every successful write
// publishes a ledger event so the balance worker recomputes the household.
type SettlementService struct {
	store     SettlementStore
	publisher EventPublisher
}

func NewSettlementService(store SettlementStore, publisher EventPublisher) *SettlementService {
	return &SettlementService{
		store:     store,
		publisher: publisher,
	}
}

// RecordSettlement validates the input and appends the settlement. The acting
// user must be one of the concrete sides; nothing is written on rejection.
func (s *SettlementService) RecordSettlement(ctx context.Context, in core.SettlementInput, actingUserID string) (core.Settlement, error) {
	settlement, err := core.ValidateSettlementInput(in)
	if err != nil {
		return core.Settlement{}, err
	}

	if settlement.From.UserID() != actingUserID && settlement.To.UserID() != actingUserID {
		return core.Settlement{}, ErrActorNotParty
	}

	settlement.ID = uuid.NewString()
	settlement.CreatedBy = actingUserID
	settlement.CreatedAt = time.Now().UTC()

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return core.Settlement{}, fmt.Errorf("save settlement: %w", err)
	}

	s.publishEvent(ctx, settlement.HouseholdID, amqp.ActionCreated, settlement.ID)
	return settlement, nil
}

// RemoveSettlement undoes a recorded settlement. The recompute contract is the
// same as for recording one.
func (s *SettlementService) RemoveSettlement(ctx context.Context, householdID, id string) error {
	if err := s.store.DeleteSettlement(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}

	s.publishEvent(ctx, householdID, amqp.ActionDeleted, id)
	return nil
}

// ListSettlements returns the household's settlement history.
func (s *SettlementService) ListSettlements(ctx context.Context, householdID string) ([]core.Settlement, error) {
	return s.store.ListSettlements(ctx, householdID)
}

func (s *SettlementService) publishEvent(ctx context.Context, householdID, action, entityID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping ledger event",
			"household_id", householdID, "action", action)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, householdID, amqp.KindSettlement, action, entityID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"household_id", householdID,
			"action", action,
			"entity_id", entityID)
		// Don't fail the request - the settlement is saved locally
	}
}
