package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/store"
	"spendlog/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Insert(context.Background(), storetest.Fixture()[0]); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	n, err := s.Count(context.Background(), core.Filter{})
	if err != nil || n != 1 {
		t.Fatalf("Count() after reopen = %d, %v; want 1", n, err)
	}
}

func TestWhereClause(t *testing.T) {
	food := core.CategoryFood
	where, args := whereClause(core.Filter{Category: &food})
	if where != " WHERE category = ?" || len(args) != 1 || args[0] != "Food" {
		t.Errorf("whereClause() = %q %v", where, args)
	}
	if where, args := whereClause(core.Filter{}); where != "" || args != nil {
		t.Errorf("empty filter produced %q %v", where, args)
	}
}
