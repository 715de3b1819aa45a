package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/services"
	"kakeibo/internal/sheets"
)

// LedgerWorker reacts to ledger change events: it recomputes the household's
// balances from scratch, exports the snapshot to the spreadsheet, and mirrors
// newly created transactions into the export sheet.
type LedgerWorker struct {
	ledger   services.LedgerStore
	balances *services.BalanceService
	appender sheets.TransactionAppender
	writer   sheets.BalanceWriter
}

func NewLedgerWorker(ledger services.LedgerStore, balances *services.BalanceService, appender sheets.TransactionAppender, writer sheets.BalanceWriter) *LedgerWorker {
	return &LedgerWorker{
		ledger:   ledger,
		balances: balances,
		appender: appender,
		writer:   writer,
	}
}

// HandleLedgerEvent processes one event. Returning an error requeues the
// delivery, so only retryable failures propagate.
func (w *LedgerWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"household_id", msg.HouseholdID,
		"kind", msg.Kind,
		"action", msg.Action,
		"entity_id", msg.EntityID)

	if msg.Kind == amqp.KindTransaction && msg.Action == amqp.ActionCreated {
		if err := w.mirrorTransaction(ctx, msg); err != nil {
			return err
		}
	}

	report, err := w.balances.Report(ctx, msg.HouseholdID)
	if err != nil {
		return fmt.Errorf("recompute balances: %w", err)
	}

	for _, suggestion := range report.Suggestions {
		slog.InfoContext(ctx, "Suggested settlement",
			"household_id", msg.HouseholdID,
			"from", suggestion.FromUserID,
			"to", suggestion.ToUserID,
			"amount", suggestion.Amount.String())
	}

	if w.writer == nil {
		slog.DebugContext(ctx, "No balance writer configured, skipping export",
			"household_id", msg.HouseholdID)
		return nil
	}

	if err := w.writer.WriteBalances(ctx, msg.HouseholdID, report.Balances); err != nil {
		return fmt.Errorf("export balances: %w", err)
	}

	slog.InfoContext(ctx, "Ledger event processed",
		"household_id", msg.HouseholdID,
		"members", len(report.Balances))

	return nil
}

func (w *LedgerWorker) mirrorTransaction(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if w.appender == nil {
		return nil
	}

	tx, err := w.ledger.GetTransaction(ctx, msg.HouseholdID, msg.EntityID)
	if err != nil {
		// The transaction may have been deleted before we got here; the
		// balance recompute below still reflects current state.
		slog.WarnContext(ctx, "Transaction not found for export",
			"entity_id", msg.EntityID, "error", err)
		return nil
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported to sheet",
		"transaction_id", tx.ID,
		"row_ref", ref)

	return nil
}
