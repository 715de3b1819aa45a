package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"kakeibo/internal/cache"
	"kakeibo/internal/core"
	"kakeibo/internal/middleware/ratelimit"
	"kakeibo/internal/middleware/trace"
	"kakeibo/internal/services"
)

// Services groups the application services the API is built on.
type Services struct {
	Ledger      *services.LedgerService
	Settlements *services.SettlementService
	Balances    *services.BalanceService
	Dashboard   *services.DashboardService
	Households  *services.HouseholdService
	Recurring   *services.RecurringService
}

// Server is the JSON API. Reads of balances and monthly summaries are served
// from LRU caches; every write invalidates the affected household's entries
// so the next read recomputes from storage (refresh-after-write).
type Server struct {
	http.Server
	svc     Services
	limiter *ratelimit.Limiter

	balanceCache *cache.LRUCache[services.BalanceReport]
	summaryCache *cache.LRUCache[core.MonthlySummary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc Services, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:          svc,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		balanceCache: cache.NewLRUCache[services.BalanceReport](cacheSize, cacheTTL),
		summaryCache: cache.NewLRUCache[core.MonthlySummary](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.balanceCache)
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Only writes are rate limited; dashboard reads go through the caches.
	mux.HandleFunc("POST /api/transactions", s.limited(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.limited(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.limited(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/settlements", s.limited(s.handleRecordSettlement))
	mux.HandleFunc("GET /api/settlements", s.handleListSettlements)
	mux.HandleFunc("DELETE /api/settlements/{id}", s.limited(s.handleRemoveSettlement))

	mux.HandleFunc("POST /api/households", s.limited(s.handleCreateHousehold))
	mux.HandleFunc("POST /api/members", s.limited(s.handleAddMember))
	mux.HandleFunc("GET /api/members", s.handleListMembers)

	mux.HandleFunc("POST /api/recurring", s.limited(s.handleCreateRecurring))
	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("PUT /api/recurring/{id}", s.limited(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.limited(s.handleDeleteRecurring))

	mux.HandleFunc("GET /api/balances", s.handleBalances)
	mux.HandleFunc("GET /api/dashboard/summary", s.handleMonthlySummary)
	mux.HandleFunc("GET /api/dashboard/breakdown", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/dashboard/yearly", s.handleYearlySeries)

	traced := trace.NewMiddleware(clientIP)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      traced.Middleware(securityHeaders(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// limited rejects the request with 429 when the client is over budget.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next(w, r)
	}
}

// securityHeaders applies the response headers appropriate for a JSON API.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the background routines before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateBalances drops the household's cached balance report.
func (s *Server) invalidateBalances(householdID string) {
	s.balanceCache.Delete(householdID)
}

// invalidateSummary drops the cached summary for the month a transaction
// touched.
func (s *Server) invalidateSummary(householdID string, on core.Date) {
	s.summaryCache.Delete(summaryKey(householdID, on.Year(), time.Month(on.Month())))
}

func summaryKey(householdID string, year int, month time.Month) string {
	return fmt.Sprintf("%s/%04d-%02d", householdID, year, int(month))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
