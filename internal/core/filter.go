package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPageNumber = 1
	DefaultPageLimit  = 10
)

// Filter is a resolved record predicate. Nil fields impose no constraint and
// both date bounds are inclusive.
type Filter struct {
	Category *Category
	Start    *time.Time
	End      *time.Time
}

// Matches evaluates the filter against a single record.
func (f Filter) Matches(e Expense) bool {
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Start != nil && e.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && e.Date.After(*f.End) {
		return false
	}
	return true
}

// WithoutCategory drops the category constraint and keeps the date bounds.
func (f Filter) WithoutCategory() Filter {
	f.Category = nil
	return f
}

// Key returns a canonical string for the filter, suitable as a cache key.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString("c=")
	if f.Category != nil {
		b.WriteString(strconv.Quote(string(*f.Category)))
	}
	b.WriteString("|s=")
	if f.Start != nil {
		b.WriteString(strconv.FormatInt(f.Start.UnixMilli(), 10))
	}
	b.WriteString("|e=")
	if f.End != nil {
		b.WriteString(strconv.FormatInt(f.End.UnixMilli(), 10))
	}
	return b.String()
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage coerces non-positive values to the defaults and caps number so
// the offset fits in an int.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPageNumber
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if number > maxPageNumber(limit) {
		number = maxPageNumber(limit)
	}
	return Page{Number: number, Limit: limit}
}

func maxPageNumber(limit int) int { return math.MaxInt/limit + 1 }

// Offset is the number of records before the page. It saturates at
// math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number > maxPageNumber(p.Limit) {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// Pages returns ceil(total/limit), 0 when there is nothing to page through.
func (p Page) Pages(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (total-1)/p.Limit + 1
}

// ListResult is one page of matching records plus the totals over all matches.
type ListResult struct {
	Records []Expense
	Total   int
	Page    int
	Pages   int
	Limit   int
}
