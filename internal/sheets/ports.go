package sheets

import (
	"context"

	"kakeibo/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionAppender appends one transaction row to the household's
	// export sheet.
	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// BalanceWriter replaces the household's balance rows with the given
	// snapshot.
	BalanceWriter interface {
		WriteBalances(ctx context.Context, householdID string, balances []core.HouseholdBalance) error
	}
)
