// Package postgres stores expenses in PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spendlog/internal/core"
	"spendlog/internal/store"
)

const selectColumns = `SELECT id, amount_cents, date, note, category, created_at, updated_at FROM expenses`

type Store struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New wraps an existing pool. Migrations are not run.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Open runs migrations against databaseURL and connects a pool to it.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := RunMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(pool), nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Insert(ctx context.Context, e core.Expense) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO expenses (id, amount_cents, date, note, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Amount.Cents, e.Date, e.Note, string(e.Category), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, e core.Expense) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE expenses
		SET amount_cents = $2, date = $3, note = $4, category = $5, updated_at = $6
		WHERE id = $1
	`, e.ID, e.Amount.Cents, e.Date, e.Note, string(e.Category), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update expense %s: %w", e.ID, core.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete expense %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (core.Expense, error) {
	e, err := scanExpense(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Expense{}, fmt.Errorf("get expense %s: %w", id, core.ErrNotFound)
		}
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) Find(ctx context.Context, f core.Filter, offset, limit int) ([]core.Expense, error) {
	where, args := whereClause(f)
	query := selectColumns + where + ` ORDER BY date DESC, created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.db.Query(ctx, query, args...)
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
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func (s *Store) GroupTotals(ctx context.Context, f core.Filter) ([]core.GroupTotal, error) {
	where, args := whereClause(f)
	rows, err := s.db.Query(ctx, `
		SELECT category,
		       EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month,
		       SUM(amount_cents)::bigint,
		       COUNT(*)
		FROM expenses`+where+`
		GROUP BY category, year, month
	`, args...)
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

func scanExpense(row pgx.Row) (core.Expense, error) {
	var e core.Expense
	var cat string
	if err := row.Scan(&e.ID, &e.Amount.Cents, &e.Date, &e.Note, &cat, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(cat)
	e.Date = core.NormalizeTime(e.Date)
	e.CreatedAt = core.NormalizeTime(e.CreatedAt)
	e.UpdatedAt = core.NormalizeTime(e.UpdatedAt)
	return e, nil
}

func whereClause(f core.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}
	if f.Category != nil {
		add("category =", string(*f.Category))
	}
	if f.Start != nil {
		add("date >=", *f.Start)
	}
	if f.End != nil {
		add("date <=", *f.End)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
