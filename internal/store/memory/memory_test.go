package memory

import (
	"context"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/store"
	"spendlog/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestNewSeedsRecords(t *testing.T) {
	s := New(storetest.Fixture()...)
	n, err := s.Count(context.Background(), core.Filter{})
	if err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v; want 3", n, err)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	rec := storetest.Fixture()[0]
	s := New(rec)
	if err := s.Insert(context.Background(), rec); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestFindRejectsNegativeOffset(t *testing.T) {
	s := New(storetest.Fixture()...)
	if _, err := s.Find(context.Background(), core.Filter{}, -10, 10); err == nil {
		t.Fatal("expected an error for a negative offset")
	}
}
