package postgres

import (
	"testing"
	"time"

	"spendlog/internal/core"
)

func TestWhereClause(t *testing.T) {
	food := core.CategoryFood
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	where, args := whereClause(core.Filter{Category: &food, Start: &start, End: &end})
	want := " WHERE category = $1 AND date >= $2 AND date <= $3"
	if where != want {
		t.Errorf("whereClause() = %q, want %q", where, want)
	}
	if len(args) != 3 || args[0] != "Food" || args[1] != start || args[2] != end {
		t.Errorf("args = %v", args)
	}

	where, args = whereClause(core.Filter{End: &end})
	if where != " WHERE date <= $1" || len(args) != 1 {
		t.Errorf("end-only whereClause() = %q %v", where, args)
	}

	if where, args := whereClause(core.Filter{}); where != "" || args != nil {
		t.Errorf("empty filter produced %q %v", where, args)
	}
}
