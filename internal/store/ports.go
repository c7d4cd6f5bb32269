// Package store declares the storage ports the services depend on.
// Implementations live in the memory, sqlite and postgres subpackages.
package store

import (
	"context"
	"time"

	"spendlog/internal/core"
)

type (
	ExpenseWriter interface {
		Insert(ctx context.Context, e core.Expense) error
		// Update replaces the stored record with the same ID.
		Update(ctx context.Context, e core.Expense) error
		Delete(ctx context.Context, id string) error
	}

	// ExpenseReader returns core.ErrNotFound when no record has the given ID.
	ExpenseReader interface {
		Get(ctx context.Context, id string) (core.Expense, error)
	}

	// ExpenseQuerier evaluates a filter. Find orders matches by date desc,
	// then creation time desc, then ID desc, and applies offset and limit
	// after ordering.
	ExpenseQuerier interface {
		Find(ctx context.Context, f core.Filter, offset, limit int) ([]core.Expense, error)
		Count(ctx context.Context, f core.Filter) (int, error)
	}

	// ExpenseAggregator returns one row per (category, calendar month) of the
	// records matching the filter. Months are taken in UTC.
	ExpenseAggregator interface {
		GroupTotals(ctx context.Context, f core.Filter) ([]core.GroupTotal, error)
	}

	Store interface {
		ExpenseWriter
		ExpenseReader
		ExpenseQuerier
		ExpenseAggregator
		Ping(ctx context.Context) error
		Close() error
	}
)

// TimeLayout is the fixed-width UTC text form used by stores that keep
// timestamps as strings. Lexical order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return core.NormalizeTime(t).Format(TimeLayout)
}

// ParseTime reads a TimeLayout value.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
