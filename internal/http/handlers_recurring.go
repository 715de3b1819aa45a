package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kakeibo/internal/core"
)

type recurringRequest struct {
	HouseholdID string          `json:"householdId"`
	Amount      decimal.Decimal `json:"amount"`
	DayOfMonth  int             `json:"dayOfMonth"`
	Category    string          `json:"category"`
	Note        string          `json:"note"`
	PayerUserID string          `json:"payerUserId"`
	IsActive    *bool           `json:"isActive"`
	ExpenseType string          `json:"expenseType"`
}

func (req recurringRequest) toTemplate() core.RecurringExpense {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return core.RecurringExpense{
		HouseholdID: req.HouseholdID,
		Amount:      req.Amount,
		DayOfMonth:  req.DayOfMonth,
		Category:    core.CategoryKey(req.Category),
		Note:        req.Note,
		PayerUserID: req.PayerUserID,
		IsActive:    active,
		ExpenseType: core.RecurringExpenseType(req.ExpenseType),
	}
}

type recurringResponse struct {
	ID             string          `json:"id"`
	HouseholdID    string          `json:"householdId"`
	Amount         decimal.Decimal `json:"amount"`
	DayOfMonth     int             `json:"dayOfMonth"`
	Category       string          `json:"category"`
	CategoryLabel  string          `json:"categoryLabel"`
	Note           string          `json:"note,omitempty"`
	PayerUserID    string          `json:"payerUserId"`
	IsActive       bool            `json:"isActive"`
	ExpenseType    string          `json:"expenseType"`
	LastExecutedOn string          `json:"lastExecutedOn,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func toRecurringResponse(re core.RecurringExpense) recurringResponse {
	resp := recurringResponse{
		ID:            re.ID,
		HouseholdID:   re.HouseholdID,
		Amount:        re.Amount,
		DayOfMonth:    re.DayOfMonth,
		Category:      string(re.Category),
		CategoryLabel: core.ResolveCategory(re.Category).Label,
		Note:          re.Note,
		PayerUserID:   re.PayerUserID,
		IsActive:      re.IsActive,
		ExpenseType:   string(re.ExpenseType),
		CreatedAt:     re.CreatedAt,
		UpdatedAt:     re.UpdatedAt,
	}
	if !re.LastExecutedOn.IsZero() {
		resp.LastExecutedOn = re.LastExecutedOn.String()
	}
	return resp
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	created, err := s.svc.Recurring.CreateTemplate(r.Context(), req.toTemplate())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	templates, err := s.svc.Recurring.ListTemplates(r.Context(), hh)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recurringResponse, 0, len(templates))
	for _, re := range templates {
		out = append(out, toRecurringResponse(re))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	re := req.toTemplate()
	re.ID = r.PathValue("id")

	updated, err := s.svc.Recurring.UpdateTemplate(r.Context(), re)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecurringResponse(updated))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	if err := s.svc.Recurring.DeleteTemplate(r.Context(), hh, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
