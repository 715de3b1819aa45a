package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func amt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func expense(category CategoryKey, amount int64) Transaction {
	return Transaction{
		Type:        TypeExpense,
		Amount:      amt(amount),
		OccurredOn:  NewDate(2024, 6, 1),
		Category:    category,
		PayerUserID: "user-a",
	}
}

func income(category CategoryKey, amount int64) Transaction {
	return Transaction{
		Type:       TypeIncome,
		Amount:     amt(amount),
		OccurredOn: NewDate(2024, 6, 25),
		Category:   category,
	}
}

func advance(target string, category CategoryKey, amount int64) Transaction {
	return Transaction{
		Type:            TypeAdvance,
		Amount:          amt(amount),
		OccurredOn:      NewDate(2024, 6, 10),
		Category:        category,
		PayerUserID:     "user-a",
		AdvanceToUserID: target,
	}
}

func TestComputeMonthlySummary(t *testing.T) {
	tests := []struct {
		name         string
		transactions []Transaction
		wantIncome   int64
		wantExpense  int64
		wantBalance  int64
	}{
		{
			name:         "empty list",
			transactions: nil,
			wantIncome:   0,
			wantExpense:  0,
			wantBalance:  0,
		},
		{
			name: "income minus expenses",
			transactions: []Transaction{
				income(CategorySalary, 300000),
				expense(CategoryGroceries, 45000),
				expense(CategoryDining, 12000),
			},
			wantIncome:  300000,
			wantExpense: 57000,
			wantBalance: 243000,
		},
		{
			name: "advances count as outflows regardless of target",
			transactions: []Transaction{
				expense(CategoryGroceries, 50),
				advance("user-b", CategoryDining, 30),
				advance("", CategoryDining, 20),
			},
			wantIncome:  0,
			wantExpense: 100,
			wantBalance: -100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMonthlySummary(tt.transactions)
			if !got.IncomeTotal.Equal(amt(tt.wantIncome)) {
				t.Errorf("IncomeTotal = %s, want %d", got.IncomeTotal, tt.wantIncome)
			}
			if !got.ExpenseTotal.Equal(amt(tt.wantExpense)) {
				t.Errorf("ExpenseTotal = %s, want %d", got.ExpenseTotal, tt.wantExpense)
			}
			if !got.Balance.Equal(amt(tt.wantBalance)) {
				t.Errorf("Balance = %s, want %d", got.Balance, tt.wantBalance)
			}
		})
	}
}

func TestComputeCategoryBreakdownExcludesTargetedAdvances(t *testing.T) {
	transactions := []Transaction{
		expense(CategoryGroceries, 50),
		advance("user-b", CategoryDining, 30),
		advance("", CategoryDining, 20),
	}

	got := ComputeCategoryBreakdown(transactions, BreakdownOptions{})
	if !got.Total.Equal(amt(70)) {
		t.Errorf("Total = %s, want 70", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(got.Items))
	}
	if got.Items[0].Key != CategoryGroceries || !got.Items[0].Amount.Equal(amt(50)) {
		t.Errorf("Items[0] = %s %s, want groceries 50", got.Items[0].Key, got.Items[0].Amount)
	}
	if got.Items[1].Key != CategoryDining || !got.Items[1].Amount.Equal(amt(20)) {
		t.Errorf("Items[1] = %s %s, want dining 20", got.Items[1].Key, got.Items[1].Amount)
	}

	// The same list counts all three in the monthly summary: the two views
	// intentionally diverge on targeted advances.
	summary := ComputeMonthlySummary(transactions)
	if !summary.ExpenseTotal.Equal(amt(100)) {
		t.Errorf("summary.ExpenseTotal = %s, want 100", summary.ExpenseTotal)
	}
}

func TestComputeCategoryBreakdownIncludeTargetedAdvances(t *testing.T) {
	transactions := []Transaction{
		expense(CategoryGroceries, 50),
		advance("user-b", CategoryDining, 30),
		advance("", CategoryDining, 20),
	}

	got := ComputeCategoryBreakdown(transactions, BreakdownOptions{IncludeTargetedAdvances: true})
	if !got.Total.Equal(amt(100)) {
		t.Errorf("Total = %s, want 100", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(got.Items))
	}
	// Both categories total 50; the tie breaks lexicographically.
	if got.Items[0].Key != CategoryDining || !got.Items[0].Amount.Equal(amt(50)) {
		t.Errorf("Items[0] = %s %s, want dining 50", got.Items[0].Key, got.Items[0].Amount)
	}
	if got.Items[1].Key != CategoryGroceries || !got.Items[1].Amount.Equal(amt(50)) {
		t.Errorf("Items[1] = %s %s, want groceries 50", got.Items[1].Key, got.Items[1].Amount)
	}
}

func TestComputeCategoryBreakdownEdges(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := ComputeCategoryBreakdown(nil, BreakdownOptions{})
		if !got.Total.IsZero() {
			t.Errorf("Total = %s, want 0", got.Total)
		}
		if len(got.Items) != 0 {
			t.Errorf("len(Items) = %d, want 0", len(got.Items))
		}
	})

	t.Run("income excluded", func(t *testing.T) {
		got := ComputeCategoryBreakdown([]Transaction{income(CategorySalary, 1000)}, BreakdownOptions{})
		if !got.Total.IsZero() {
			t.Errorf("Total = %s, want 0", got.Total)
		}
	})

	t.Run("unknown category lands in other", func(t *testing.T) {
		tx := expense(CategoryGroceries, 10)
		tx.Category = "legacy-key"
		got := ComputeCategoryBreakdown([]Transaction{tx}, BreakdownOptions{})
		if len(got.Items) != 1 || got.Items[0].Key != CategoryOther {
			t.Errorf("Items = %+v, want single entry under other", got.Items)
		}
	})

	t.Run("ties break by category key", func(t *testing.T) {
		got := ComputeCategoryBreakdown([]Transaction{
			expense(CategoryGroceries, 40),
			expense(CategoryDining, 40),
		}, BreakdownOptions{})
		if len(got.Items) != 2 {
			t.Fatalf("len(Items) = %d, want 2", len(got.Items))
		}
		if got.Items[0].Key != CategoryDining {
			t.Errorf("Items[0].Key = %s, want dining (lexicographic tiebreak)", got.Items[0].Key)
		}
	})

	t.Run("ratios sum to one", func(t *testing.T) {
		got := ComputeCategoryBreakdown([]Transaction{
			expense(CategoryGroceries, 75),
			expense(CategoryDining, 25),
		}, BreakdownOptions{})
		if got.Items[0].Ratio != 0.75 || got.Items[1].Ratio != 0.25 {
			t.Errorf("ratios = %v, %v, want 0.75, 0.25", got.Items[0].Ratio, got.Items[1].Ratio)
		}
	})
}

func TestComputeCategoryBreakdownOrderIndependent(t *testing.T) {
	transactions := []Transaction{
		expense(CategoryGroceries, 50),
		expense(CategoryDining, 30),
		advance("", CategoryDaily, 20),
		income(CategorySalary, 1000),
	}
	reversed := make([]Transaction, len(transactions))
	for i, tx := range transactions {
		reversed[len(transactions)-1-i] = tx
	}

	a := ComputeCategoryBreakdown(transactions, BreakdownOptions{})
	b := ComputeCategoryBreakdown(reversed, BreakdownOptions{})
	if !a.Total.Equal(b.Total) || len(a.Items) != len(b.Items) {
		t.Fatalf("breakdown differs under permutation: %+v vs %+v", a, b)
	}
	for i := range a.Items {
		if a.Items[i].Key != b.Items[i].Key || !a.Items[i].Amount.Equal(b.Items[i].Amount) {
			t.Errorf("Items[%d] differ under permutation: %+v vs %+v", i, a.Items[i], b.Items[i])
		}
	}
}

func TestComputeYearlySeries(t *testing.T) {
	jan := expense(CategoryGroceries, 100)
	jan.OccurredOn = NewDate(2024, 1, 15)
	febIncome := income(CategorySalary, 500)
	febIncome.OccurredOn = NewDate(2024, 2, 25)
	febExpense := advance("", CategoryDining, 200)
	febExpense.OccurredOn = NewDate(2024, 2, 3)
	corrupt := expense(CategoryDaily, 999)
	corrupt.OccurredOn = Date{}

	series := ComputeYearlySeries([]Transaction{jan, febIncome, febExpense, corrupt})
	if len(series) != 12 {
		t.Fatalf("len(series) = %d, want 12", len(series))
	}

	if !series[0].ExpenseTotal.Equal(amt(100)) || !series[0].Balance.Equal(amt(-100)) {
		t.Errorf("January = %+v, want expense 100 balance -100", series[0])
	}
	if !series[1].IncomeTotal.Equal(amt(500)) || !series[1].ExpenseTotal.Equal(amt(200)) {
		t.Errorf("February = %+v, want income 500 expense 200", series[1])
	}
	if !series[1].Cumulative.Equal(amt(200)) {
		t.Errorf("February cumulative = %s, want 200 (-100 + 300)", series[1].Cumulative)
	}
	if !series[11].Cumulative.Equal(amt(200)) {
		t.Errorf("December cumulative = %s, want 200 carried forward", series[11].Cumulative)
	}

	// The corrupt record is skipped, not summed anywhere.
	total := decimal.Zero
	for _, m := range series {
		total = total.Add(m.ExpenseTotal)
	}
	if !total.Equal(amt(300)) {
		t.Errorf("total expense across buckets = %s, want 300", total)
	}
}
