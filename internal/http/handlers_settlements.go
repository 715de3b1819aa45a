package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kakeibo/internal/core"
)

type settlementRequest struct {
	HouseholdID string          `json:"householdId"`
	FromUserID  string          `json:"fromUserId"`
	ToUserID    string          `json:"toUserId"`
	Amount      decimal.Decimal `json:"amount"`
	SettledOn   string          `json:"settledOn"`
	Note        string          `json:"note"`
}

type settlementResponse struct {
	ID          string          `json:"id"`
	HouseholdID string          `json:"householdId"`
	FromUserID  string          `json:"fromUserId,omitempty"`
	ToUserID    string          `json:"toUserId,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SettledOn   string          `json:"settledOn"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toSettlementResponse(s core.Settlement) settlementResponse {
	return settlementResponse{
		ID:          s.ID,
		HouseholdID: s.HouseholdID,
		FromUserID:  s.From.UserID(),
		ToUserID:    s.To.UserID(),
		Amount:      s.Amount,
		SettledOn:   s.SettledOn.String(),
		Note:        s.Note,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
	}
}

func (s *Server) handleRecordSettlement(w http.ResponseWriter, r *http.Request) {
	actor := actingUser(r)
	if actor == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req settlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	settlement, err := s.svc.Settlements.RecordSettlement(r.Context(), core.SettlementInput{
		HouseholdID: req.HouseholdID,
		FromUserID:  req.FromUserID,
		ToUserID:    req.ToUserID,
		Amount:      req.Amount,
		SettledOn:   req.SettledOn,
		Note:        req.Note,
	}, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateBalances(settlement.HouseholdID)

	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	settlements, err := s.svc.Settlements.ListSettlements(r.Context(), hh)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]settlementResponse, 0, len(settlements))
	for _, sett := range settlements {
		out = append(out, toSettlementResponse(sett))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRemoveSettlement(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	if err := s.svc.Settlements.RemoveSettlement(r.Context(), hh, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateBalances(hh)

	w.WriteHeader(http.StatusNoContent)
}
