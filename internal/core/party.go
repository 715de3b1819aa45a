package core

// Party is one side of a settlement: either a concrete household member or
// the household as a whole. The zero value is the household.
type Party struct {
	userID string
}

// MemberParty returns the party for one concrete member.
func MemberParty(userID string) Party {
	return Party{userID: userID}
}

// HouseholdParty returns the party standing for the household as a whole.
func HouseholdParty() Party {
	return Party{}
}

// IsHousehold reports whether the party is the household side.
func (p Party) IsHousehold() bool {
	return p.userID == ""
}

// UserID returns the member id, or "" for the household side.
func (p Party) UserID() string {
	return p.userID
}

func (p Party) String() string {
	if p.IsHousehold() {
		return "household"
	}
	return p.userID
}
