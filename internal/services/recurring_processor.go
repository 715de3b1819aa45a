package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
)

// RecurringCreatedBy marks transactions materialized from a template.
const RecurringCreatedBy = "recurring-worker"

// RecurringProcessor sweeps the active templates once per tick. Fixed
// templates materialize a real expense; variable templates only publish a
// reminder, since the amount differs every month.
type RecurringProcessor struct {
	store     RecurringStore
	ledger    *LedgerService
	reminders ReminderPublisher
}

func NewRecurringProcessor(store RecurringStore, ledger *LedgerService, reminders ReminderPublisher) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		ledger:    ledger,
		reminders: reminders,
	}
}

// ProcessDue handles every active template that is due at now. It returns the
// number of templates acted on; per-template failures are logged and skipped
// so one bad template cannot stall the sweep.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.store.ListActiveRecurringExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, re := range templates {
		if !re.DueAt(now) {
			continue
		}

		dueOn := core.NewDate(now.Year(), int(now.Month()), re.DueDay(now.Year(), now.Month()))

		var err error
		switch re.ExpenseType {
		case core.RecurringFixed:
			err = p.materialize(ctx, re, dueOn)
		case core.RecurringVariable:
			err = p.remind(ctx, re, dueOn)
		default:
			slog.ErrorContext(ctx, "Unknown recurring expense type",
				"recurring_id", re.ID, "expense_type", re.ExpenseType)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring expense",
				"recurring_id", re.ID, "error", err)
			continue
		}

		if err := p.store.MarkRecurringExecuted(ctx, re.ID, dueOn); err != nil {
			slog.ErrorContext(ctx, "Failed to update last execution date",
				"recurring_id", re.ID, "error", err)
			// Continue anyway - the expense or reminder already went out
		}

		processed++
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}

func (p *RecurringProcessor) materialize(ctx context.Context, re core.RecurringExpense, dueOn core.Date) error {
	tx := core.Transaction{
		HouseholdID: re.HouseholdID,
		Type:        core.TypeExpense,
		Amount:      re.Amount,
		OccurredOn:  dueOn,
		Category:    re.Category,
		Note:        re.Note,
		PayerUserID: re.PayerUserID,
		CreatedBy:   RecurringCreatedBy,
	}

	created, err := p.ledger.CreateTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("materialize expense: %w", err)
	}

	slog.InfoContext(ctx, "Created expense from recurring template",
		"recurring_id", re.ID,
		"transaction_id", created.ID,
		"amount", re.Amount.String(),
		"occurred_on", dueOn.String())

	return nil
}

func (p *RecurringProcessor) remind(ctx context.Context, re core.RecurringExpense, dueOn core.Date) error {
	if p.reminders == nil {
		return fmt.Errorf("reminder publisher not available")
	}

	msg := amqp.NewReminderMessage(re.HouseholdID, re.ID, string(re.Category), re.Note, dueOn.String())
	if err := p.reminders.PublishReminder(ctx, msg); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}

	slog.InfoContext(ctx, "Published reminder for variable recurring expense",
		"recurring_id", re.ID,
		"due_on", dueOn.String())

	return nil
}
