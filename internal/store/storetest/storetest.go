// Package storetest is a conformance suite run against every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Fixture returns the three records used across the suite:
// 10 Food on 2024-01-05, 20 Food on 2024-01-20, 5 Travel on 2024-02-01.
func Fixture() []core.Expense {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mk := func(id string, cents int64, cat core.Category, date time.Time, offset time.Duration) core.Expense {
		return core.Expense{
			ID:        id,
			Amount:    core.MoneyFromCents(cents),
			Date:      date,
			Note:      "note " + id,
			Category:  cat,
			CreatedAt: created.Add(offset),
			UpdatedAt: created.Add(offset),
		}
	}
	return []core.Expense{
		mk("a", 1000, core.CategoryFood, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 0),
		mk("b", 2000, core.CategoryFood, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), time.Second),
		mk("c", 500, core.CategoryTravel, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 2*time.Second),
	}
}

// Run executes the suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertGet", func(t *testing.T) { testInsertGet(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("UpdateDelete", func(t *testing.T) { testUpdateDelete(t, newStore(t)) })
	t.Run("FindOrdering", func(t *testing.T) { testFindOrdering(t, newStore(t)) })
	t.Run("FindFilterAndPaging", func(t *testing.T) { testFindFilterAndPaging(t, newStore(t)) })
	t.Run("GroupTotals", func(t *testing.T) { testGroupTotals(t, newStore(t)) })
}

func seed(t *testing.T, s store.Store, records ...core.Expense) {
	t.Helper()
	for _, e := range records {
		if err := s.Insert(context.Background(), e); err != nil {
			t.Fatalf("insert %s: %v", e.ID, err)
		}
	}
}

func ids(records []core.Expense) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testInsertGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := Fixture()[0]
	want.Date = time.Date(2024, 1, 5, 13, 45, 10, 123000000, time.UTC)
	seed(t, s, want)

	got, err := s.Get(ctx, want.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != want.ID || got.Amount != want.Amount || got.Note != want.Note || got.Category != want.Category {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if !got.Date.Equal(want.Date) || !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps differ: got %v/%v/%v", got.Date, got.CreatedAt, got.UpdatedAt)
	}
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, core.Expense{ID: "missing", Category: core.CategoryOther, Date: time.Now()}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func testUpdateDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	records := Fixture()
	seed(t, s, records...)

	changed := records[1]
	changed.Amount = core.MoneyFromCents(2500)
	changed.Category = core.CategoryBills
	changed.Note = ""
	changed.UpdatedAt = changed.UpdatedAt.Add(time.Hour)
	if err := s.Update(ctx, changed); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := s.Get(ctx, changed.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Amount.Cents != 2500 || got.Category != core.CategoryBills || got.Note != "" || !got.UpdatedAt.Equal(changed.UpdatedAt) {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	n, err := s.Count(ctx, core.Filter{})
	if err != nil || n != 2 {
		t.Errorf("Count() after delete = %d, %v; want 2", n, err)
	}
}

func testFindOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	records := Fixture()
	// Same date as "b" but created later: must come first.
	sameDay := records[1]
	sameDay.ID = "d"
	sameDay.CreatedAt = sameDay.CreatedAt.Add(time.Minute)
	seed(t, s, append(records, sameDay)...)

	got, err := s.Find(ctx, core.Filter{}, 0, 10)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	want := []string{"c", "d", "b", "a"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Find() order = %v, want %v", ids(got), want)
	}
}

func testFindFilterAndPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed(t, s, Fixture()...)

	food := core.CategoryFood
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC)

	tests := []struct {
		name          string
		f             core.Filter
		offset, limit int
		want          []string
		count         int
	}{
		{"all", core.Filter{}, 0, 10, []string{"c", "b", "a"}, 3},
		{"category", core.Filter{Category: &food}, 0, 10, []string{"b", "a"}, 2},
		{"date range", core.Filter{Start: &start, End: &end}, 0, 10, []string{"b"}, 1},
		{"start only", core.Filter{Start: &start}, 0, 10, []string{"c", "b"}, 2},
		{"inverted range", core.Filter{Start: &end, End: &start}, 0, 10, nil, 0},
		{"second page", core.Filter{}, 1, 1, []string{"b"}, 3},
		{"beyond end", core.Filter{}, 6, 2, nil, 3},
		{"far beyond end", core.Filter{}, math.MaxInt / 10 * 10, 10, nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Find(ctx, tt.f, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("Find() = %v, want %v", ids(got), tt.want)
			}
			n, err := s.Count(ctx, tt.f)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != tt.count {
				t.Errorf("Count() = %d, want %d", n, tt.count)
			}
		})
	}
}

func testGroupTotals(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed(t, s, Fixture()...)

	got, err := s.GroupTotals(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("GroupTotals() error = %v", err)
	}
	sort.Slice(got, func(i, j int) bool {
		if got[i].Year != got[j].Year {
			return got[i].Year < got[j].Year
		}
		if got[i].Month != got[j].Month {
			return got[i].Month < got[j].Month
		}
		return got[i].Category < got[j].Category
	})

	want := []core.GroupTotal{
		{Category: core.CategoryFood, Year: 2024, Month: 1, Total: core.MoneyFromCents(3000), Count: 2},
		{Category: core.CategoryTravel, Year: 2024, Month: 2, Total: core.MoneyFromCents(500), Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("GroupTotals() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GroupTotals()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	travel := core.CategoryTravel
	got, err = s.GroupTotals(ctx, core.Filter{Category: &travel})
	if err != nil || len(got) != 1 || got[0].Total.Cents != 500 {
		t.Errorf("GroupTotals(Travel) = %+v, %v", got, err)
	}

	empty := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err = s.GroupTotals(ctx, core.Filter{Start: &empty})
	if err != nil || len(got) != 0 {
		t.Errorf("GroupTotals(no matches) = %+v, %v", got, err)
	}
}
