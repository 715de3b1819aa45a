package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/core"
)

// RecurringService manages the recurring expense templates the processor
// sweeps.
type RecurringService struct {
	store RecurringAdminStore
}

func NewRecurringService(store RecurringAdminStore) *RecurringService {
	return &RecurringService{store: store}
}

// CreateTemplate validates and persists a new template. New templates start
// active unless the caller says otherwise.
func (s *RecurringService) CreateTemplate(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	re.ID = uuid.NewString()
	re.Category = core.ResolveCategory(re.Category).Key
	now := time.Now().UTC()
	re.CreatedAt = now
	re.UpdatedAt = now

	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}

	if err := s.store.CreateRecurringExpense(ctx, re); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	return re, nil
}

// UpdateTemplate validates and persists changes to an existing template.
func (s *RecurringService) UpdateTemplate(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	re.Category = core.ResolveCategory(re.Category).Key
	re.UpdatedAt = time.Now().UTC()

	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}

	if err := s.store.UpdateRecurringExpense(ctx, re); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring expense: %w", err)
	}
	return re, nil
}

// DeleteTemplate removes a template; already-materialized transactions are
// untouched.
func (s *RecurringService) DeleteTemplate(ctx context.Context, householdID, id string) error {
	if err := s.store.DeleteRecurringExpense(ctx, householdID, id); err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return nil
}

// ListTemplates returns every template of the household, active or not.
func (s *RecurringService) ListTemplates(ctx context.Context, householdID string) ([]core.RecurringExpense, error) {
	return s.store.ListRecurringExpenses(ctx, householdID)
}
