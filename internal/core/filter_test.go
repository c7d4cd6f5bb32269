package core

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestFilterMatches(t *testing.T) {
	food := CategoryFood
	start := day(2024, 1, 10)
	end := day(2024, 1, 20)
	e := Expense{Category: CategoryFood, Date: day(2024, 1, 10)}

	tests := []struct {
		name string
		f    Filter
		e    Expense
		want bool
	}{
		{"empty filter", Filter{}, e, true},
		{"category match", Filter{Category: &food}, e, true},
		{"category mismatch", Filter{Category: &food}, Expense{Category: CategoryTravel, Date: e.Date}, false},
		{"start inclusive", Filter{Start: &start}, e, true},
		{"before start", Filter{Start: &start}, Expense{Date: day(2024, 1, 9)}, false},
		{"end inclusive", Filter{End: &end}, Expense{Date: end}, true},
		{"after end", Filter{End: &end}, Expense{Date: end.Add(time.Millisecond)}, false},
		{"inverted range", Filter{Start: &end, End: &start}, e, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(tt.e); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterKey(t *testing.T) {
	food := CategoryFood
	start := day(2024, 1, 1)
	a := Filter{Category: &food, Start: &start}
	start2 := day(2024, 1, 1)
	food2 := CategoryFood
	b := Filter{Category: &food2, Start: &start2}

	if a.Key() != b.Key() {
		t.Errorf("equal filters produced different keys: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == a.WithoutCategory().Key() {
		t.Error("category not part of key")
	}
	if (Filter{}).Key() == (Filter{End: &start}).Key() {
		t.Error("end bound not part of key")
	}
}

func TestPage(t *testing.T) {
	p := NewPage(0, -3)
	if p.Number != DefaultPageNumber || p.Limit != DefaultPageLimit {
		t.Errorf("NewPage(0,-3) = %+v", p)
	}

	tests := []struct {
		page, limit, total int
		offset, pages      int
	}{
		{1, 10, 0, 0, 0},
		{1, 10, 10, 0, 1},
		{2, 10, 11, 10, 2},
		{2, 1, 3, 1, 3},
		{5, 2, 3, 8, 2},
	}
	for _, tt := range tests {
		p := NewPage(tt.page, tt.limit)
		if p.Offset() != tt.offset {
			t.Errorf("Offset(page=%d, limit=%d) = %d, want %d", tt.page, tt.limit, p.Offset(), tt.offset)
		}
		if got := p.Pages(tt.total); got != tt.pages {
			t.Errorf("Pages(%d) with limit %d = %d, want %d", tt.total, tt.limit, got, tt.pages)
		}
	}
}

func TestPageOffsetNeverOverflows(t *testing.T) {
	tests := []struct {
		name string
		p    Page
	}{
		{"huge number", NewPage(922337203685477582, 10)},
		{"huge limit", NewPage(3, math.MaxInt)},
		{"both huge", NewPage(math.MaxInt, math.MaxInt)},
		{"literal page", Page{Number: math.MaxInt, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if off := tt.p.Offset(); off < 0 {
				t.Errorf("Offset() = %d for %+v", off, tt.p)
			}
		})
	}

	if got := NewPage(1, math.MaxInt).Pages(3); got != 1 {
		t.Errorf("Pages(3) with the largest limit = %d, want 1", got)
	}

	if p := NewPage(922337203685477582, 10); p.Number != math.MaxInt/10+1 {
		t.Errorf("NewPage() number = %d, want capped at %d", p.Number, math.MaxInt/10+1)
	}
}
