package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kakeibo/internal/core"
)

// transactionRequest is the JSON payload for creating or updating a
// transaction. Amount accepts both a JSON number and a quoted decimal
// string.
type transactionRequest struct {
	HouseholdID     string          `json:"householdId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	OccurredOn      string          `json:"occurredOn"`
	Category        string          `json:"category"`
	Note            string          `json:"note"`
	PayerUserID     string          `json:"payerUserId"`
	AdvanceToUserID string          `json:"advanceToUserId"`
}

func (req transactionRequest) toTransaction(createdBy string) (core.Transaction, error) {
	occurredOn, err := core.ParseDate(req.OccurredOn)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		HouseholdID:     req.HouseholdID,
		Type:            core.TransactionType(req.Type),
		Amount:          req.Amount,
		OccurredOn:      occurredOn,
		Category:        core.CategoryKey(req.Category),
		Note:            req.Note,
		PayerUserID:     req.PayerUserID,
		AdvanceToUserID: req.AdvanceToUserID,
		CreatedBy:       createdBy,
	}, nil
}

type transactionResponse struct {
	ID              string          `json:"id"`
	HouseholdID     string          `json:"householdId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	OccurredOn      string          `json:"occurredOn"`
	Category        string          `json:"category"`
	CategoryLabel   string          `json:"categoryLabel"`
	Note            string          `json:"note,omitempty"`
	PayerUserID     string          `json:"payerUserId,omitempty"`
	AdvanceToUserID string          `json:"advanceToUserId,omitempty"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		HouseholdID:     t.HouseholdID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		OccurredOn:      t.OccurredOn.String(),
		Category:        string(t.Category),
		CategoryLabel:   core.ResolveCategory(t.Category).Label,
		Note:            t.Note,
		PayerUserID:     t.PayerUserID,
		AdvanceToUserID: t.AdvanceToUserID,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toTransactionResponses(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	tx, err := req.toTransaction(actingUser(r))
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.svc.Ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateBalances(created.HouseholdID)
	s.invalidateSummary(created.HouseholdID, created.OccurredOn)

	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	year, month := parseYearMonth(r)
	from := core.NewDate(year, int(month), 1)
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	to := core.NewDate(year, int(month), lastDay)

	transactions, err := s.svc.Ledger.ListTransactions(r.Context(), hh, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	tx, err := s.svc.Ledger.GetTransaction(r.Context(), hh, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	tx, err := req.toTransaction(actingUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	tx.ID = r.PathValue("id")

	// Preserve provenance and invalidate the month the transaction is
	// moving away from, not just its new one.
	existing, err := s.svc.Ledger.GetTransaction(r.Context(), tx.HouseholdID, tx.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	tx.CreatedBy = existing.CreatedBy
	tx.CreatedAt = existing.CreatedAt

	updated, err := s.svc.Ledger.UpdateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateBalances(updated.HouseholdID)
	s.invalidateSummary(updated.HouseholdID, existing.OccurredOn)
	s.invalidateSummary(updated.HouseholdID, updated.OccurredOn)

	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}
	id := r.PathValue("id")

	existing, err := s.svc.Ledger.GetTransaction(r.Context(), hh, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.svc.Ledger.DeleteTransaction(r.Context(), hh, id); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateBalances(hh)
	s.invalidateSummary(hh, existing.OccurredOn)

	w.WriteHeader(http.StatusNoContent)
}
