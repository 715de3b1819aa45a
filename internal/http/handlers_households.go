package http

import (
	"encoding/json"
	"net/http"

	"kakeibo/internal/core"
)

type memberPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type householdRequest struct {
	Name    string          `json:"name"`
	Members []memberPayload `json:"members"`
}

type householdResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Members []memberPayload `json:"members"`
}

func toMemberPayloads(members []core.Member) []memberPayload {
	out := make([]memberPayload, 0, len(members))
	for _, m := range members {
		out = append(out, memberPayload{UserID: m.UserID, DisplayName: m.DisplayName})
	}
	return out
}

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	members := make([]core.Member, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, core.Member{UserID: m.UserID, DisplayName: m.DisplayName})
	}

	id, err := s.svc.Households.CreateHousehold(r.Context(), req.Name, members)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.svc.Households.ListMembers(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, householdResponse{
		ID:      id,
		Name:    req.Name,
		Members: toMemberPayloads(created),
	})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	var req memberPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	member := core.Member{UserID: req.UserID, DisplayName: req.DisplayName}
	if err := s.svc.Households.AddMember(r.Context(), hh, member); err != nil {
		writeError(w, err)
		return
	}

	// Membership feeds the household-wide split, so cached balances are
	// stale the moment it changes.
	s.invalidateBalances(hh)

	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	members, err := s.svc.Households.ListMembers(r.Context(), hh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemberPayloads(members))
}
