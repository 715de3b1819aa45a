package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// LedgerService orchestrates transaction writes: validate, persist, then
// notify. Publishing is best-effort; a persisted transaction is never rolled
// back because the broker was unreachable.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// CreateTransaction validates and persists a new transaction. The ID and
// timestamps are assigned here; unknown categories fall back to "other".
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.Category = core.ResolveCategory(t.Category).Key
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, t.HouseholdID, amqp.ActionCreated, t.ID)
	return t, nil
}

// UpdateTransaction validates and persists changes to an existing
// transaction.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.Category = core.ResolveCategory(t.Category).Key
	t.UpdatedAt = time.Now().UTC()

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, t.HouseholdID, amqp.ActionUpdated, t.ID)
	return t, nil
}

// DeleteTransaction removes a transaction from the ledger.
func (s *LedgerService) DeleteTransaction(ctx context.Context, householdID, id string) error {
	if err := s.store.DeleteTransaction(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, householdID, amqp.ActionDeleted, id)
	return nil
}

// GetTransaction fetches a single transaction.
func (s *LedgerService) GetTransaction(ctx context.Context, householdID, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, householdID, id)
}

// ListTransactions returns the household's transactions within [from, to].
func (s *LedgerService) ListTransactions(ctx context.Context, householdID string, from, to core.Date) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, householdID, from, to)
}

func (s *LedgerService) publishEvent(ctx context.Context, householdID, action, entityID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping ledger event",
			"household_id", householdID, "action", action)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, householdID, amqp.KindTransaction, action, entityID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"household_id", householdID,
			"action", action,
			"entity_id", entityID)
		// Don't fail the request - the transaction is saved locally
	}
}
