package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
	"kakeibo/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses: validation problems are
// 400, missing rows 404, acting-user mismatches 403, everything else 500
// with the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var fieldErr *core.FieldError
	if errors.As(err, &fieldErr) {
		resp.Field = fieldErr.Field
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, services.ErrActorNotParty):
		writeJSON(w, http.StatusForbidden, resp)
	case errors.Is(err, services.ErrMemberIDRequired):
		writeJSON(w, http.StatusBadRequest, resp)
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		slog.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

var validationErrors = []error{
	core.ErrInvalidType,
	core.ErrNonPositiveAmount,
	core.ErrInvalidDate,
	core.ErrCategoryNotAllowed,
	core.ErrPayerRequired,
	core.ErrAdvanceTargetInvalid,
	core.ErrSelfAdvance,
	core.ErrSameParty,
	core.ErrNoConcreteParty,
	core.ErrEmptyHousehold,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current calendar month.
func parseYearMonth(r *http.Request) (int, time.Month) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}

	return year, month
}

// householdID pulls the mandatory householdId query parameter.
func householdID(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("householdId"))
}

// actingUser is the authenticated user forwarded by the auth proxy.
func actingUser(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

// clientIP extracts the client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
