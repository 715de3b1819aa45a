package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kakeibo/internal/core"
)

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	if report, ok := s.balanceCache.Get(hh); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.svc.Balances.Report(r.Context(), hh)
	if err != nil {
		writeError(w, err)
		return
	}
	s.balanceCache.Set(hh, report)

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}
	year, month := parseYearMonth(r)

	key := summaryKey(hh, year, month)
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.svc.Dashboard.MonthlySummary(r.Context(), hh, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Set(key, summary)

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}
	year, month := parseYearMonth(r)

	opts := core.BreakdownOptions{
		IncludeTargetedAdvances: queryBool(r, "includeTargetedAdvances"),
	}

	breakdown, err := s.svc.Dashboard.CategoryBreakdown(r.Context(), hh, year, month, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleYearlySeries(w http.ResponseWriter, r *http.Request) {
	hh := householdID(r)
	if hh == "" {
		badRequest(w, "householdId is required")
		return
	}

	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}

	series, err := s.svc.Dashboard.YearlySeries(r.Context(), hh, year)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}

func queryBool(r *http.Request, name string) bool {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
