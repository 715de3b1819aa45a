package memory

import (
	"context"
	"fmt"
	"sync"

	"kakeibo/internal/core"
	ports "kakeibo/internal/sheets"
)

// Store keeps exported rows in memory. Used in tests and when no
// spreadsheet is configured.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	balances     map[string][]core.HouseholdBalance
}

var (
	_ ports.TransactionAppender = (*Store)(nil)
	_ ports.BalanceWriter       = (*Store)(nil)
)

func New() *Store {
	return &Store{balances: make(map[string][]core.HouseholdBalance)}
}

func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return fmt.Sprintf("mem:%d", len(s.transactions)), nil
}

func (s *Store) WriteBalances(_ context.Context, householdID string, balances []core.HouseholdBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]core.HouseholdBalance, len(balances))
	copy(snapshot, balances)
	s.balances[householdID] = snapshot
	return nil
}

// Transactions returns a copy of the appended rows.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Balances returns the last written snapshot for the household.
func (s *Store) Balances(householdID string) []core.HouseholdBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[householdID]
}
