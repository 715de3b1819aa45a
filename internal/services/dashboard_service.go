package services

import (
	"context"
	"fmt"
	"time"

	"kakeibo/internal/core"
)

// DashboardService produces the monthly and yearly aggregate views.
type DashboardService struct {
	ledger LedgerStore
}

func NewDashboardService(ledger LedgerStore) *DashboardService {
	return &DashboardService{ledger: ledger}
}

// MonthlySummary returns the income/expense/balance totals for one calendar
// month.
func (s *DashboardService) MonthlySummary(ctx context.Context, householdID string, year int, month time.Month) (core.MonthlySummary, error) {
	transactions, err := s.listMonth(ctx, householdID, year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	return core.ComputeMonthlySummary(transactions), nil
}

// CategoryBreakdown returns the expense composition for one calendar month.
func (s *DashboardService) CategoryBreakdown(ctx context.Context, householdID string, year int, month time.Month, opts core.BreakdownOptions) (core.CategoryBreakdown, error) {
	transactions, err := s.listMonth(ctx, householdID, year, month)
	if err != nil {
		return core.CategoryBreakdown{}, err
	}
	return core.ComputeCategoryBreakdown(transactions, opts), nil
}

// YearlySeries returns twelve month buckets with running cumulative balance.
func (s *DashboardService) YearlySeries(ctx context.Context, householdID string, year int) ([]core.MonthlyDifference, error) {
	from := core.NewDate(year, 1, 1)
	to := core.NewDate(year, 12, 31)
	transactions, err := s.ledger.ListTransactions(ctx, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.ComputeYearlySeries(transactions), nil
}

func (s *DashboardService) listMonth(ctx context.Context, householdID string, year int, month time.Month) ([]core.Transaction, error) {
	from := core.NewDate(year, int(month), 1)
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	to := core.NewDate(year, int(month), lastDay)

	transactions, err := s.ledger.ListTransactions(ctx, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}
