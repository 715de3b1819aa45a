package services

import (
	"context"
	"fmt"

	"kakeibo/internal/core"
)

// BalanceReport is a household's current positions plus the minimal set of
// transfers that would zero them.
type BalanceReport struct {
	Balances    []core.HouseholdBalance    `json:"balances"`
	Suggestions []core.SettlementSuggestion `json:"suggestions"`
}

// BalanceService recomputes balances from the full advance and settlement
// history. It never updates incrementally; recomputation from scratch is the
// consistency guarantee.
type BalanceService struct {
	ledger      LedgerStore
	settlements SettlementStore
	members     MemberDirectory
}

func NewBalanceService(ledger LedgerStore, settlements SettlementStore, members MemberDirectory) *BalanceService {
	return &BalanceService{
		ledger:      ledger,
		settlements: settlements,
		members:     members,
	}
}

// Report fetches a consistent snapshot of the household's history and derives
// balances and settlement suggestions from it.
func (s *BalanceService) Report(ctx context.Context, householdID string) (BalanceReport, error) {
	advances, err := s.ledger.ListAdvances(ctx, householdID)
	if err != nil {
		return BalanceReport{}, fmt.Errorf("list advances: %w", err)
	}

	settlements, err := s.settlements.ListSettlements(ctx, householdID)
	if err != nil {
		return BalanceReport{}, fmt.Errorf("list settlements: %w", err)
	}

	members, err := s.members.ListMembers(ctx, householdID)
	if err != nil {
		return BalanceReport{}, fmt.Errorf("list members: %w", err)
	}

	balances, err := core.ComputeBalances(advances, settlements, members)
	if err != nil {
		return BalanceReport{}, fmt.Errorf("compute balances: %w", err)
	}

	return BalanceReport{
		Balances:    balances,
		Suggestions: core.SuggestSettlements(balances),
	}, nil
}
