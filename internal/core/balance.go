package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Member is a household member as known to the membership directory.
type Member struct {
	UserID      string
	DisplayName string
}

// HouseholdBalance is one member's net signed position. Positive means the
// member is owed money, negative means the member owes money.
type HouseholdBalance struct {
	UserID        string          `json:"userId"`
	UserName      string          `json:"userName"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
}

// ComputeBalances derives every member's net balance from the full advance
// and settlement history of a household.
//
// Every advance creates a debt edge and every settlement reduces one:
//
//   - targeted advance P→T: T owes P, so P gains and T loses the amount;
//   - household-wide advance by P: the amount is split equally among the
//     other members, each of whom owes P their share;
//   - targeted settlement F→T: the inverse of a targeted advance T→F —
//     F gains (debt cleared) and T loses (repaid);
//   - household-wide settlement: the household side's effect is split among
//     the members other than the concrete side, mirroring the advance split.
//
// The result is deterministic: it depends only on the multiset of events,
// not on their order, and recomputing from scratch always reproduces it.
// Inputs are assumed validated; structural violations (an advance targeting
// its own payer, a settlement with the household on both sides) fail loudly
// rather than producing a misleading balance.
func ComputeBalances(advances []Transaction, settlements []Settlement, members []Member) ([]HouseholdBalance, error) {
	l := newLedgerState(members)

	for _, a := range advances {
		if a.Type != TypeAdvance {
			return nil, fmt.Errorf("transaction %s: %w", a.ID, ErrNotAnAdvance)
		}
		if a.PayerUserID == "" {
			return nil, fmt.Errorf("advance %s: %w", a.ID, ErrPayerRequired)
		}
		if a.AdvanceToUserID == "" {
			// Household-wide: the whole household owes the payer.
			if err := l.splitHousehold(a.PayerUserID, a.Amount, decimal.NewFromInt(-1)); err != nil {
				return nil, fmt.Errorf("advance %s: %w", a.ID, err)
			}
			continue
		}
		if a.AdvanceToUserID == a.PayerUserID {
			return nil, fmt.Errorf("advance %s: %w", a.ID, ErrSelfAdvance)
		}
		l.add(a.PayerUserID, a.Amount)
		l.add(a.AdvanceToUserID, a.Amount.Neg())
	}

	for _, s := range settlements {
		from, to := s.From, s.To
		switch {
		case from.IsHousehold() && to.IsHousehold():
			return nil, fmt.Errorf("settlement %s: %w", s.ID, ErrNoConcreteParty)
		case !from.IsHousehold() && from.UserID() == to.UserID():
			return nil, fmt.Errorf("settlement %s: %w", s.ID, ErrSameParty)
		case from.IsHousehold():
			// The household pays the receiver: everyone but the receiver
			// covers a share, the receiver's claim shrinks.
			if err := l.splitHousehold(to.UserID(), s.Amount, decimal.NewFromInt(1)); err != nil {
				return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
			}
		case to.IsHousehold():
			// The payer settles with the household: the payer's debt
			// shrinks, everyone else's claim shrinks by their share.
			if err := l.splitHousehold(from.UserID(), s.Amount, decimal.NewFromInt(-1)); err != nil {
				return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
			}
		default:
			l.add(from.UserID(), s.Amount)
			l.add(to.UserID(), s.Amount.Neg())
		}
	}

	return l.result(), nil
}

// ledgerState accumulates signed balances per user while replaying history.
type ledgerState struct {
	balances  map[string]decimal.Decimal
	names     map[string]string
	memberIDs []string // sorted; drives the household-wide split
}

func newLedgerState(members []Member) *ledgerState {
	l := &ledgerState{
		balances: make(map[string]decimal.Decimal, len(members)),
		names:    make(map[string]string, len(members)),
	}
	for _, m := range members {
		l.balances[m.UserID] = decimal.Zero
		l.names[m.UserID] = m.DisplayName
		l.memberIDs = append(l.memberIDs, m.UserID)
	}
	sort.Strings(l.memberIDs)
	return l
}

func (l *ledgerState) add(userID string, amount decimal.Decimal) {
	if _, ok := l.balances[userID]; !ok {
		// Events may reference a user the directory no longer lists; the
		// balance is still tracked so money stays conserved.
		l.balances[userID] = decimal.Zero
	}
	l.balances[userID] = l.balances[userID].Add(amount)
}

// splitHousehold applies a household-wide event: payer gains the inverse of
// sign*amount and each other member takes sign*share. For exactly two
// members the whole amount falls on the one other member. Shares are kept at
// cent precision; any rounding remainder lands on the first other member in
// user-id order so the split is deterministic and conserves the total.
//
// With three or more members this implements an equal split. The source
// system only ever exercises two; see DESIGN.md for the open question.
func (l *ledgerState) splitHousehold(concreteID string, amount, sign decimal.Decimal) error {
	var others []string
	for _, id := range l.memberIDs {
		if id != concreteID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		// A household of one has no counterparty; the event cannot create
		// or clear any debt.
		return nil
	}

	l.add(concreteID, amount.Mul(sign).Neg())

	n := decimal.NewFromInt(int64(len(others)))
	share := amount.DivRound(n, 2)
	remainder := amount.Sub(share.Mul(n))
	for i, id := range others {
		portion := share
		if i == 0 {
			portion = portion.Add(remainder)
		}
		l.add(id, portion.Mul(sign))
	}
	return nil
}

func (l *ledgerState) result() []HouseholdBalance {
	ids := make([]string, 0, len(l.balances))
	for id := range l.balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]HouseholdBalance, 0, len(ids))
	for _, id := range ids {
		out = append(out, HouseholdBalance{
			UserID:        id,
			UserName:      l.names[id],
			BalanceAmount: l.balances[id],
		})
	}
	return out
}
