package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kakeibo/internal/core"
)

// ErrMemberIDRequired rejects members without a user ID.
var ErrMemberIDRequired = errors.New("member user id is required")

// HouseholdService manages households and their two members.
type HouseholdService struct {
	store HouseholdStore
}

func NewHouseholdService(store HouseholdStore) *HouseholdService {
	return &HouseholdService{store: store}
}

// CreateHousehold creates a household with its initial members and returns
// the generated household ID.
func (s *HouseholdService) CreateHousehold(ctx context.Context, name string, members []core.Member) (string, error) {
	id := uuid.NewString()
	if strings.TrimSpace(name) == "" {
		name = "Household"
	}

	if err := s.store.CreateHousehold(ctx, id, name); err != nil {
		return "", fmt.Errorf("create household: %w", err)
	}

	for _, m := range members {
		if err := s.AddMember(ctx, id, m); err != nil {
			return "", err
		}
	}

	return id, nil
}

// AddMember registers a member; re-adding an existing user updates the
// display name.
func (s *HouseholdService) AddMember(ctx context.Context, householdID string, m core.Member) error {
	if strings.TrimSpace(m.UserID) == "" {
		return ErrMemberIDRequired
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		m.DisplayName = m.UserID
	}

	if err := s.store.AddMember(ctx, householdID, m); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// ListMembers returns the household's members ordered by user ID.
func (s *HouseholdService) ListMembers(ctx context.Context, householdID string) ([]core.Member, error) {
	return s.store.ListMembers(ctx, householdID)
}
