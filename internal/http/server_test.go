package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
	"kakeibo/internal/storage"
)

// memStore is an in-memory implementation of the service ports.
type memStore struct {
	transactions map[string]core.Transaction
	settlements  map[string]core.Settlement
	households   map[string]string
	recurring    map[string]core.RecurringExpense
	members      []core.Member
}

func newMemStore() *memStore {
	return &memStore{
		transactions: make(map[string]core.Transaction),
		settlements:  make(map[string]core.Settlement),
		households:   make(map[string]string),
		recurring:    make(map[string]core.RecurringExpense),
		members: []core.Member{
			{UserID: "user-a", DisplayName: "Aki"},
			{UserID: "user-b", DisplayName: "Ben"},
		},
	}
}

func (m *memStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	m.transactions[t.ID] = t
	return nil
}

func (m *memStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if _, ok := m.transactions[t.ID]; !ok {
		return storage.ErrNotFound
	}
	m.transactions[t.ID] = t
	return nil
}

func (m *memStore) DeleteTransaction(_ context.Context, _, id string) error {
	if _, ok := m.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, _, id string) (core.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListTransactions(_ context.Context, householdID string, from, to core.Date) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.HouseholdID != householdID {
			continue
		}
		day := t.OccurredOn.String()
		if day >= from.String() && day <= to.String() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListAdvances(_ context.Context, householdID string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.HouseholdID == householdID && t.Type == core.TypeAdvance {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) CreateSettlement(_ context.Context, s core.Settlement) error {
	m.settlements[s.ID] = s
	return nil
}

func (m *memStore) DeleteSettlement(_ context.Context, _, id string) error {
	if _, ok := m.settlements[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.settlements, id)
	return nil
}

func (m *memStore) GetSettlement(_ context.Context, _, id string) (core.Settlement, error) {
	s, ok := m.settlements[id]
	if !ok {
		return core.Settlement{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *memStore) ListSettlements(_ context.Context, householdID string) ([]core.Settlement, error) {
	var out []core.Settlement
	for _, s := range m.settlements {
		if s.HouseholdID == householdID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListMembers(_ context.Context, _ string) ([]core.Member, error) {
	return m.members, nil
}

func (m *memStore) CreateHousehold(_ context.Context, id, name string) error {
	m.households[id] = name
	return nil
}

func (m *memStore) AddMember(_ context.Context, _ string, member core.Member) error {
	for i, existing := range m.members {
		if existing.UserID == member.UserID {
			m.members[i] = member
			return nil
		}
	}
	m.members = append(m.members, member)
	return nil
}

func (m *memStore) CreateRecurringExpense(_ context.Context, re core.RecurringExpense) error {
	m.recurring[re.ID] = re
	return nil
}

func (m *memStore) UpdateRecurringExpense(_ context.Context, re core.RecurringExpense) error {
	if _, ok := m.recurring[re.ID]; !ok {
		return storage.ErrNotFound
	}
	m.recurring[re.ID] = re
	return nil
}

func (m *memStore) DeleteRecurringExpense(_ context.Context, _, id string) error {
	if _, ok := m.recurring[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.recurring, id)
	return nil
}

func (m *memStore) ListRecurringExpenses(_ context.Context, householdID string) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	for _, re := range m.recurring {
		if re.HouseholdID == householdID {
			out = append(out, re)
		}
	}
	return out, nil
}

func newTestServer(store *memStore) *Server {
	ledger := services.NewLedgerService(store, nil)
	return NewServer("127.0.0.1:0", Services{
		Ledger:      ledger,
		Settlements: services.NewSettlementService(store, nil),
		Balances:    services.NewBalanceService(store, store, store),
		Dashboard:   services.NewDashboardService(store),
		Households:  services.NewHouseholdService(store),
		Recurring:   services.NewRecurringService(store),
	}, 100, 5*time.Minute)
}

func doRequest(s *Server, method, target, body, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(newMemStore())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	body := `{"householdId":"hh-1","type":"expense","amount":"42.50","occurredOn":"2024-03-15","category":"groceries","payerUserId":"user-a"}`
	rec := doRequest(s, http.MethodPost, "/api/transactions", body, "user-a")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected an assigned ID")
	}
	if resp.CreatedBy != "user-a" {
		t.Errorf("CreatedBy = %q, want user-a", resp.CreatedBy)
	}
	if !resp.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("Amount = %s, want 42.50", resp.Amount)
	}
	if len(store.transactions) != 1 {
		t.Errorf("store has %d transactions, want 1", len(store.transactions))
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	s := newTestServer(newMemStore())

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"householdId":"hh-1","type":"expense","amount":0,"occurredOn":"2024-03-15","category":"groceries","payerUserId":"user-a"}`},
		{"bad date", `{"householdId":"hh-1","type":"expense","amount":10,"occurredOn":"2024-13-40","category":"groceries","payerUserId":"user-a"}`},
		{"self advance", `{"householdId":"hh-1","type":"advance","amount":10,"occurredOn":"2024-03-15","category":"dining","payerUserId":"user-a","advanceToUserId":"user-a"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/transactions", tt.body, "user-a")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	s := newTestServer(newMemStore())

	rec := doRequest(s, http.MethodGet, "/api/transactions/nope?householdId=hh-1", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSettlementAuth(t *testing.T) {
	s := newTestServer(newMemStore())
	body := `{"householdId":"hh-1","fromUserId":"user-b","toUserId":"user-a","amount":25,"settledOn":"2024-03-20"}`

	rec := doRequest(s, http.MethodPost, "/api/settlements", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing user: status = %d, want 401", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/settlements", body, "user-c")
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider: status = %d, want 403", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/settlements", body, "user-b")
	if rec.Code != http.StatusCreated {
		t.Errorf("party: status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestBalancesRefreshAfterWrite(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	advance := `{"householdId":"hh-1","type":"advance","amount":100,"occurredOn":"2024-03-01","category":"dining","payerUserId":"user-a","advanceToUserId":"user-b"}`
	if rec := doRequest(s, http.MethodPost, "/api/transactions", advance, "user-a"); rec.Code != http.StatusCreated {
		t.Fatalf("create advance: status = %d", rec.Code)
	}

	rec := doRequest(s, http.MethodGet, "/api/balances?householdId=hh-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("balances: status = %d", rec.Code)
	}
	var report services.BalanceReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.Balances[0].BalanceAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("user-a balance = %s, want 100", report.Balances[0].BalanceAmount)
	}

	// Settling must drop the cached report so the next read recomputes.
	settle := `{"householdId":"hh-1","fromUserId":"user-b","toUserId":"user-a","amount":100,"settledOn":"2024-03-02"}`
	if rec := doRequest(s, http.MethodPost, "/api/settlements", settle, "user-b"); rec.Code != http.StatusCreated {
		t.Fatalf("settle: status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/balances?householdId=hh-1", "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	for _, b := range report.Balances {
		if !b.BalanceAmount.IsZero() {
			t.Errorf("%s balance = %s, want 0 after settling up", b.UserID, b.BalanceAmount)
		}
	}
}

func TestCategoryBreakdownExcludesTargetedAdvances(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	bodies := []string{
		`{"householdId":"hh-1","type":"expense","amount":50,"occurredOn":"2024-03-05","category":"groceries","payerUserId":"user-a"}`,
		`{"householdId":"hh-1","type":"advance","amount":30,"occurredOn":"2024-03-06","category":"dining","payerUserId":"user-a","advanceToUserId":"user-b"}`,
		`{"householdId":"hh-1","type":"advance","amount":20,"occurredOn":"2024-03-07","category":"dining","payerUserId":"user-a"}`,
	}
	for _, body := range bodies {
		if rec := doRequest(s, http.MethodPost, "/api/transactions", body, "user-a"); rec.Code != http.StatusCreated {
			t.Fatalf("seed: status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	rec := doRequest(s, http.MethodGet, "/api/dashboard/breakdown?householdId=hh-1&year=2024&month=3", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown: status = %d", rec.Code)
	}
	var breakdown core.CategoryBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if !breakdown.Total.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Total = %s, want 70 with the targeted advance excluded", breakdown.Total)
	}

	rec = doRequest(s, http.MethodGet, "/api/dashboard/summary?householdId=hh-1&year=2024&month=3", "", "")
	var summary core.MonthlySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !summary.ExpenseTotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ExpenseTotal = %s, want 100 with all advances counted", summary.ExpenseTotal)
	}
}

func TestSummaryCacheInvalidatedByNewTransaction(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	expense := `{"householdId":"hh-1","type":"expense","amount":10,"occurredOn":"2024-03-05","category":"groceries","payerUserId":"user-a"}`
	if rec := doRequest(s, http.MethodPost, "/api/transactions", expense, "user-a"); rec.Code != http.StatusCreated {
		t.Fatalf("seed: status = %d", rec.Code)
	}

	target := "/api/dashboard/summary?householdId=hh-1&year=2024&month=3"
	rec := doRequest(s, http.MethodGet, target, "", "")
	var summary core.MonthlySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !summary.ExpenseTotal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("ExpenseTotal = %s, want 10", summary.ExpenseTotal)
	}

	if rec := doRequest(s, http.MethodPost, "/api/transactions", expense, "user-a"); rec.Code != http.StatusCreated {
		t.Fatalf("second write: status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, target, "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !summary.ExpenseTotal.Equal(decimal.NewFromInt(20)) {
		t.Errorf("ExpenseTotal = %s, want 20 after cache invalidation", summary.ExpenseTotal)
	}
}

func TestCreateHousehold(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	body := `{"name":"Casa","members":[{"userId":"user-c","displayName":"Cam"}]}`
	rec := doRequest(s, http.MethodPost, "/api/households", body, "user-c")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp householdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected an assigned household ID")
	}
	if len(store.households) != 1 {
		t.Errorf("store has %d households, want 1", len(store.households))
	}

	found := false
	for _, m := range store.members {
		if m.UserID == "user-c" && m.DisplayName == "Cam" {
			found = true
		}
	}
	if !found {
		t.Error("expected user-c to be registered as a member")
	}
}

func TestAddMemberRequiresUserID(t *testing.T) {
	s := newTestServer(newMemStore())

	rec := doRequest(s, http.MethodPost, "/api/members?householdId=hh-1", `{"displayName":"Nobody"}`, "user-a")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestRecurringTemplateLifecycle(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	body := `{"householdId":"hh-1","amount":"1200","dayOfMonth":1,"category":"home","note":"rent","payerUserId":"user-a","expenseType":"fixed"}`
	rec := doRequest(s, http.MethodPost, "/api/recurring", body, "user-a")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created recurringResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned template ID")
	}
	if !created.IsActive {
		t.Error("new templates should default to active")
	}

	rec = doRequest(s, http.MethodGet, "/api/recurring?householdId=hh-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var templates []recurringResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &templates); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("got %d templates, want 1", len(templates))
	}

	rec = doRequest(s, http.MethodDelete, "/api/recurring/"+created.ID+"?householdId=hh-1", "", "user-a")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}
	if len(store.recurring) != 0 {
		t.Errorf("store still has %d templates, want 0", len(store.recurring))
	}
}

func TestCreateRecurringRejectsBadDay(t *testing.T) {
	s := newTestServer(newMemStore())

	body := `{"householdId":"hh-1","amount":"50","dayOfMonth":0,"category":"home","payerUserId":"user-a","expenseType":"fixed"}`
	rec := doRequest(s, http.MethodPost, "/api/recurring", body, "user-a")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}
