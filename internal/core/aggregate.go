package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlySummary totals one month of transactions. Advances count as
// expense-like outflows: the money left the household's pocket regardless of
// who ultimately bears it, and the later settlement is a separate event.
type MonthlySummary struct {
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Balance      decimal.Decimal `json:"balance"`
}

// ComputeMonthlySummary reduces the given transactions to income/expense
// totals. The caller filters to the relevant window first.
func ComputeMonthlySummary(transactions []Transaction) MonthlySummary {
	s := MonthlySummary{
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Balance:      decimal.Zero,
	}
	for _, t := range transactions {
		if t.Type == TypeIncome {
			s.IncomeTotal = s.IncomeTotal.Add(t.Amount)
		} else {
			s.ExpenseTotal = s.ExpenseTotal.Add(t.Amount)
		}
	}
	s.Balance = s.IncomeTotal.Sub(s.ExpenseTotal)
	return s
}

// BreakdownOptions controls what the category breakdown counts.
type BreakdownOptions struct {
	// IncludeTargetedAdvances also counts advances aimed at one specific
	// member. By default those are excluded: they are personal loans, not
	// household expenses. Household-wide advances are always counted.
	IncludeTargetedAdvances bool
}

// BreakdownItem is one category's share of the spending.
type BreakdownItem struct {
	Key    CategoryKey     `json:"key"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Ratio  float64         `json:"ratio"`
}

// CategoryBreakdown is the per-category spending of one time window.
type CategoryBreakdown struct {
	Total decimal.Decimal `json:"total"`
	Items []BreakdownItem `json:"items"`
}

// ComputeCategoryBreakdown sums expense-family spending per category, sorted
// by descending amount with ties broken by category key. A zero grand total
// yields an explicit empty result.
func ComputeCategoryBreakdown(transactions []Transaction, opts BreakdownOptions) CategoryBreakdown {
	totals := make(map[CategoryKey]decimal.Decimal)
	grand := decimal.Zero

	for _, t := range transactions {
		include := t.Type == TypeExpense ||
			t.IsHouseholdAdvance() ||
			(opts.IncludeTargetedAdvances && t.Type == TypeAdvance)
		if !include {
			continue
		}
		key := ResolveCategory(t.Category).Key
		if !IsExpenseCategory(key) {
			continue
		}
		totals[key] = totals[key].Add(t.Amount)
		grand = grand.Add(t.Amount)
	}

	if grand.IsZero() {
		return CategoryBreakdown{Total: decimal.Zero, Items: []BreakdownItem{}}
	}

	items := make([]BreakdownItem, 0, len(totals))
	for key, amount := range totals {
		if amount.IsZero() {
			continue
		}
		ratio, _ := amount.Div(grand).Float64()
		items = append(items, BreakdownItem{
			Key:    key,
			Label:  ResolveCategory(key).Label,
			Amount: amount,
			Ratio:  ratio,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Amount.Cmp(items[j].Amount); c != 0 {
			return c > 0
		}
		return items[i].Key < items[j].Key
	})

	return CategoryBreakdown{Total: grand, Items: items}
}

// MonthlyDifference is one month's bucket of the yearly series.
type MonthlyDifference struct {
	Month        int             `json:"month"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Balance      decimal.Decimal `json:"balance"`
	// Cumulative is the running balance from January through this month.
	Cumulative decimal.Decimal `json:"cumulative"`
}

// ComputeYearlySeries buckets a year of transactions by calendar month using
// the same income/expense policy as ComputeMonthlySummary. Transactions with
// an unusable date are skipped rather than failing the whole series.
func ComputeYearlySeries(transactions []Transaction) []MonthlyDifference {
	series := make([]MonthlyDifference, 12)
	for i := range series {
		series[i] = MonthlyDifference{
			Month:        i + 1,
			IncomeTotal:  decimal.Zero,
			ExpenseTotal: decimal.Zero,
			Balance:      decimal.Zero,
			Cumulative:   decimal.Zero,
		}
	}

	for _, t := range transactions {
		if t.OccurredOn.IsZero() {
			continue
		}
		month := t.OccurredOn.Month()
		if month < 1 || month > 12 {
			continue
		}
		entry := &series[month-1]
		if t.Type == TypeIncome {
			entry.IncomeTotal = entry.IncomeTotal.Add(t.Amount)
		} else {
			entry.ExpenseTotal = entry.ExpenseTotal.Add(t.Amount)
		}
		entry.Balance = entry.IncomeTotal.Sub(entry.ExpenseTotal)
	}

	running := decimal.Zero
	for i := range series {
		running = running.Add(series[i].Balance)
		series[i].Cumulative = running
	}
	return series
}
