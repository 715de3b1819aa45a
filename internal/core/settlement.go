package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement records money actually paid to clear an outstanding balance.
// One side is always a concrete member; the other may be the household.
type Settlement struct {
	ID          string
	HouseholdID string
	From        Party
	To          Party
	Amount      decimal.Decimal
	SettledOn   Date
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}

// SettlementInput is the raw payload of a settlement form submission.
// Empty FromUserID/ToUserID means the household side.
type SettlementInput struct {
	HouseholdID string
	FromUserID  string
	ToUserID    string
	Amount      decimal.Decimal
	SettledOn   string
	Note        string
}

// ValidateSettlementInput rejects malformed input before anything is
// written. On success it returns a Settlement carrying the validated fields;
// ID and provenance are filled in by the caller.
func ValidateSettlementInput(in SettlementInput) (Settlement, error) {
	if in.HouseholdID == "" {
		return Settlement{}, fieldErr("householdId", ErrEmptyHousehold)
	}
	if !in.Amount.IsPositive() {
		return Settlement{}, fieldErr("amount", ErrNonPositiveAmount)
	}
	if in.FromUserID == "" && in.ToUserID == "" {
		return Settlement{}, fieldErr("fromUserId", ErrNoConcreteParty)
	}
	if in.FromUserID != "" && in.FromUserID == in.ToUserID {
		return Settlement{}, fieldErr("toUserId", ErrSameParty)
	}
	settledOn, err := ParseDate(in.SettledOn)
	if err != nil {
		return Settlement{}, fieldErr("settledOn", ErrInvalidDate)
	}

	from := HouseholdParty()
	if in.FromUserID != "" {
		from = MemberParty(in.FromUserID)
	}
	to := HouseholdParty()
	if in.ToUserID != "" {
		to = MemberParty(in.ToUserID)
	}

	return Settlement{
		HouseholdID: in.HouseholdID,
		From:        from,
		To:          to,
		Amount:      in.Amount,
		SettledOn:   settledOn,
		Note:        in.Note,
	}, nil
}
