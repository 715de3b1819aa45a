package core

import "github.com/shopspring/decimal"

// SettlementSuggestion proposes one payment that moves the household toward
// all-zero balances.
type SettlementSuggestion struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

// SuggestSettlements derives the payments that would clear every balance.
// Debtors and creditors are matched greedily in user-id order, so the same
// balances always produce the same suggestions. Balances that do not sum to
// zero (possible with off-directory participants) leave a tail unpaired.
func SuggestSettlements(balances []HouseholdBalance) []SettlementSuggestion {
	type position struct {
		userID string
		amount decimal.Decimal
	}

	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.BalanceAmount.IsNegative():
			debtors = append(debtors, position{b.UserID, b.BalanceAmount.Neg()})
		case b.BalanceAmount.IsPositive():
			creditors = append(creditors, position{b.UserID, b.BalanceAmount})
		}
	}

	var suggestions []SettlementSuggestion
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owed := debtors[i].amount
		due := creditors[j].amount
		pay := decimal.Min(owed, due)

		suggestions = append(suggestions, SettlementSuggestion{
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     pay,
		})

		debtors[i].amount = owed.Sub(pay)
		creditors[j].amount = due.Sub(pay)
		if debtors[i].amount.IsZero() {
			i++
		}
		if creditors[j].amount.IsZero() {
			j++
		}
	}
	return suggestions
}
