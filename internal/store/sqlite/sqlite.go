// Package sqlite stores expenses in a SQLite file through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/store"

	_ "modernc.org/sqlite"
)

const selectColumns = `SELECT id, amount_cents, date, note, category, created_at, updated_at FROM expenses`

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and applies migrations.
func New(dbPath string) (*Store, error) {
	// Migrations first: they need exclusive use of the file.
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Insert(ctx context.Context, e core.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, date, note, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, store.FormatTime(e.Date), e.Note, string(e.Category),
		store.FormatTime(e.CreatedAt), store.FormatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (s *Store) Update(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, date = ?, note = ?, category = ?, updated_at = ?
		 WHERE id = ?`,
		e.Amount.Cents, store.FormatTime(e.Date), e.Note, string(e.Category),
		store.FormatTime(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return expectOneRow(res, "update", e.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return expectOneRow(res, "delete", id)
}

func (s *Store) Get(ctx context.Context, id string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) Find(ctx context.Context, f core.Filter, offset, limit int) ([]core.Expense, error) {
	where, args := whereClause(f)
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx,
		selectColumns+where+` ORDER BY date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f core.Filter) (int, error) {
	where, args := whereClause(f)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func (s *Store) GroupTotals(ctx context.Context, f core.Filter) ([]core.GroupTotal, error) {
	where, args := whereClause(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT category,
		        CAST(substr(date, 1, 4) AS INTEGER) AS year,
		        CAST(substr(date, 6, 2) AS INTEGER) AS month,
		        SUM(amount_cents),
		        COUNT(*)
		 FROM expenses`+where+`
		 GROUP BY category, year, month`, args...)
	if err != nil {
		return nil, fmt.Errorf("group expense totals: %w", err)
	}
	defer rows.Close()

	var out []core.GroupTotal
	for rows.Next() {
		var (
			g     core.GroupTotal
			cat   string
			cents int64
		)
		if err := rows.Scan(&cat, &g.Year, &g.Month, &cents, &g.Count); err != nil {
			return nil, fmt.Errorf("scan group total: %w", err)
		}
		g.Category = core.Category(cat)
		g.Total = core.MoneyFromCents(cents)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group totals: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(sc scanner) (core.Expense, error) {
	var e core.Expense
	var cat, date, created, updated string
	if err := sc.Scan(&e.ID, &e.Amount.Cents, &date, &e.Note, &cat, &created, &updated); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(cat)

	var err error
	if e.Date, err = store.ParseTime(date); err != nil {
		return core.Expense{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if e.CreatedAt, err = store.ParseTime(created); err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if e.UpdatedAt, err = store.ParseTime(updated); err != nil {
		return core.Expense{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	return e, nil
}

func whereClause(f core.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.Start != nil {
		conds = append(conds, "date >= ?")
		args = append(args, store.FormatTime(*f.Start))
	}
	if f.End != nil {
		conds = append(conds, "date <= ?")
		args = append(args, store.FormatTime(*f.End))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func expectOneRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s expense: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s expense %s: %w", op, id, core.ErrNotFound)
	}
	return nil
}
