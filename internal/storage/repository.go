package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"kakeibo/internal/core"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// SQLiteRepository persists households, transactions, settlements and
// recurring expense templates in a single SQLite file. Money amounts are
// stored as decimal strings, dates as YYYY-MM-DD, timestamps as RFC 3339.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- households and members ---

func (r *SQLiteRepository) CreateHousehold(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO households (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, now())
	if err != nil {
		return fmt.Errorf("create household: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddMember(ctx context.Context, householdID string, m core.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (household_id, user_id, display_name, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (household_id, user_id) DO UPDATE SET display_name = excluded.display_name`,
		householdID, m.UserID, m.DisplayName, now())
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context, householdID string) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, display_name FROM members
		 WHERE household_id = ? ORDER BY user_id`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.UserID, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, household_id, type, amount, occurred_on, category, note,
		  payer_user_id, advance_to_user_id, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HouseholdID, string(t.Type), t.Amount.String(), t.OccurredOn.String(),
		string(t.Category), t.Note, t.PayerUserID, t.AdvanceToUserID, t.CreatedBy,
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
		   type = ?, amount = ?, occurred_on = ?, category = ?, note = ?,
		   payer_user_id = ?, advance_to_user_id = ?, updated_at = ?
		 WHERE id = ? AND household_id = ?`,
		string(t.Type), t.Amount.String(), t.OccurredOn.String(), string(t.Category),
		t.Note, t.PayerUserID, t.AdvanceToUserID, t.UpdatedAt.Format(time.RFC3339),
		t.ID, t.HouseholdID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, householdID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, householdID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		transactionColumns+` WHERE id = ? AND household_id = ?`, id, householdID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return t, err
}

// ListTransactions returns the household's transactions within [from, to],
// most recent first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, householdID string, from, to core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		transactionColumns+`
		 WHERE household_id = ? AND occurred_on >= ? AND occurred_on <= ?
		 ORDER BY occurred_on DESC, created_at DESC`,
		householdID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListAdvances returns the household's full advance history, oldest first.
func (r *SQLiteRepository) ListAdvances(ctx context.Context, householdID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		transactionColumns+`
		 WHERE household_id = ? AND type = 'advance'
		 ORDER BY occurred_on, created_at`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("list advances: %w", err)
	}
	return collectTransactions(rows)
}

const transactionColumns = `SELECT id, household_id, type, amount, occurred_on,
	category, note, payer_user_id, advance_to_user_id, created_by,
	created_at, updated_at FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                            core.Transaction
		typ, amount, occurredOn, cat string
		createdAt, updatedAt         string
	)
	err := row.Scan(&t.ID, &t.HouseholdID, &typ, &amount, &occurredOn, &cat,
		&t.Note, &t.PayerUserID, &t.AdvanceToUserID, &t.CreatedBy,
		&createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.Category = core.CategoryKey(cat)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.OccurredOn, err = core.ParseDate(occurredOn); err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_on %q: %w", occurredOn, err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- settlements ---

func (r *SQLiteRepository) CreateSettlement(ctx context.Context, s core.Settlement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settlements
		 (id, household_id, from_user_id, to_user_id, amount, settled_on, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.HouseholdID, s.From.UserID(), s.To.UserID(), s.Amount.String(),
		s.SettledOn.String(), s.Note, s.CreatedBy, s.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create settlement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSettlement(ctx context.Context, householdID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM settlements WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetSettlement(ctx context.Context, householdID, id string) (core.Settlement, error) {
	row := r.db.QueryRowContext(ctx,
		settlementColumns+` WHERE id = ? AND household_id = ?`, id, householdID)
	s, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settlement{}, ErrNotFound
	}
	return s, err
}

// ListSettlements returns the household's full settlement history, oldest
// first.
func (r *SQLiteRepository) ListSettlements(ctx context.Context, householdID string) ([]core.Settlement, error) {
	rows, err := r.db.QueryContext(ctx,
		settlementColumns+` WHERE household_id = ? ORDER BY settled_on, created_at`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var out []core.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const settlementColumns = `SELECT id, household_id, from_user_id, to_user_id,
	amount, settled_on, note, created_by, created_at FROM settlements`

func scanSettlement(row rowScanner) (core.Settlement, error) {
	var (
		s                              core.Settlement
		fromID, toID, amount, settled  string
		createdAt                      string
	)
	err := row.Scan(&s.ID, &s.HouseholdID, &fromID, &toID, &amount, &settled,
		&s.Note, &s.CreatedBy, &createdAt)
	if err != nil {
		return core.Settlement{}, err
	}
	s.From = partyFromID(fromID)
	s.To = partyFromID(toID)
	if s.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Settlement{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if s.SettledOn, err = core.ParseDate(settled); err != nil {
		return core.Settlement{}, fmt.Errorf("parse settled_on %q: %w", settled, err)
	}
	s.CreatedAt = parseTime(createdAt)
	return s, nil
}

func partyFromID(userID string) core.Party {
	if userID == "" {
		return core.HouseholdParty()
	}
	return core.MemberParty(userID)
}

// --- recurring expense templates ---

func (r *SQLiteRepository) CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses
		 (id, household_id, amount, day_of_month, category, note, payer_user_id,
		  is_active, expense_type, last_executed_on, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		re.ID, re.HouseholdID, re.Amount.String(), re.DayOfMonth, string(re.Category),
		re.Note, re.PayerUserID, boolToInt(re.IsActive), string(re.ExpenseType),
		dateOrEmpty(re.LastExecutedOn),
		re.CreatedAt.Format(time.RFC3339), re.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create recurring expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateRecurringExpense(ctx context.Context, re core.RecurringExpense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET
		   amount = ?, day_of_month = ?, category = ?, note = ?, payer_user_id = ?,
		   is_active = ?, expense_type = ?, updated_at = ?
		 WHERE id = ? AND household_id = ?`,
		re.Amount.String(), re.DayOfMonth, string(re.Category), re.Note, re.PayerUserID,
		boolToInt(re.IsActive), string(re.ExpenseType), re.UpdatedAt.Format(time.RFC3339),
		re.ID, re.HouseholdID)
	if err != nil {
		return fmt.Errorf("update recurring expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteRecurringExpense(ctx context.Context, householdID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_expenses WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return requireRow(res)
}

// ListActiveRecurringExpenses returns every active template across all
// households, for the recurring worker sweep.
func (r *SQLiteRepository) ListActiveRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		recurringColumns+` WHERE is_active = 1 ORDER BY household_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list active recurring expenses: %w", err)
	}
	return collectRecurring(rows)
}

func (r *SQLiteRepository) ListRecurringExpenses(ctx context.Context, householdID string) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		recurringColumns+` WHERE household_id = ? ORDER BY day_of_month, id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	return collectRecurring(rows)
}

// MarkRecurringExecuted records that the template materialized an expense on
// the given date, which suppresses further executions this month.
func (r *SQLiteRepository) MarkRecurringExecuted(ctx context.Context, id string, on core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET last_executed_on = ?, updated_at = ? WHERE id = ?`,
		on.String(), now(), id)
	if err != nil {
		return fmt.Errorf("mark recurring executed: %w", err)
	}
	return requireRow(res)
}

const recurringColumns = `SELECT id, household_id, amount, day_of_month,
	category, note, payer_user_id, is_active, expense_type, last_executed_on,
	created_at, updated_at FROM recurring_expenses`

func scanRecurring(row rowScanner) (core.RecurringExpense, error) {
	var (
		re                        core.RecurringExpense
		amount, cat, typ, lastOn  string
		active                    int
		createdAt, updatedAt      string
	)
	err := row.Scan(&re.ID, &re.HouseholdID, &amount, &re.DayOfMonth, &cat,
		&re.Note, &re.PayerUserID, &active, &typ, &lastOn, &createdAt, &updatedAt)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	re.Category = core.CategoryKey(cat)
	re.ExpenseType = core.RecurringExpenseType(typ)
	re.IsActive = active != 0
	if re.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if lastOn != "" {
		if re.LastExecutedOn, err = core.ParseDate(lastOn); err != nil {
			return core.RecurringExpense{}, fmt.Errorf("parse last_executed_on %q: %w", lastOn, err)
		}
	}
	re.CreatedAt = parseTime(createdAt)
	re.UpdatedAt = parseTime(updatedAt)
	return re, nil
}

func collectRecurring(rows *sql.Rows) ([]core.RecurringExpense, error) {
	defer rows.Close()
	var out []core.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

// --- helpers ---

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// SQLite's datetime('now') default uses this layout.
		t, _ = time.Parse("2006-01-02 15:04:05", s)
	}
	return t
}

func dateOrEmpty(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
