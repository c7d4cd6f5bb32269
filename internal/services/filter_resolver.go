package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"spendlog/internal/core"
)

// FilterParams are the raw query values a client may send.
type FilterParams struct {
	Category  string
	StartDate string
	EndDate   string
}

// ResolveFilter turns raw query values into a core.Filter.
//
// An empty category or "All" imposes no category constraint. A date-only
// endDate covers the whole day. A start after the end is valid and matches
// nothing.
func ResolveFilter(p FilterParams) (core.Filter, error) {
	var f core.Filter

	if c := strings.TrimSpace(p.Category); c != "" && core.Category(c) != core.CategoryAll {
		cat := core.Category(c)
		f.Category = &cat
	}

	start, err := resolveBound("startDate", p.StartDate, false)
	if err != nil {
		return core.Filter{}, err
	}
	f.Start = start

	end, err := resolveBound("endDate", p.EndDate, true)
	if err != nil {
		return core.Filter{}, err
	}
	f.End = end

	return f, nil
}

// ResolveSummaryFilter resolves only the date bounds. Summaries always cover
// every category.
func ResolveSummaryFilter(p FilterParams) (core.Filter, error) {
	p.Category = ""
	return ResolveFilter(p)
}

func resolveBound(name, raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, dateOnly, err := core.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a valid date", core.ErrInvalidFilter, name, raw)
	}
	if upper && dateOnly {
		t = core.EndOfDay(t)
	}
	return &t, nil
}

// ResolvePage coerces raw page and limit values to positive integers,
// falling back to the defaults. A positive maxLimit caps the limit.
func ResolvePage(page, limit string, maxLimit int) core.Page {
	p := core.NewPage(atoiOrZero(page), atoiOrZero(limit))
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
