// Package memory is an in-process store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"spendlog/internal/core"
)

type groupKey struct {
	category core.Category
	year     int
	month    int
}

type Store struct {
	mu    sync.RWMutex
	items map[string]core.Expense
}

func New(seed ...core.Expense) *Store {
	s := &Store{items: make(map[string]core.Expense, len(seed))}
	for _, e := range seed {
		s.items[e.ID] = e
	}
	return s
}

func (s *Store) Insert(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; ok {
		return fmt.Errorf("insert expense %s: duplicate id", e.ID)
	}
	s.items[e.ID] = e
	return nil
}

func (s *Store) Update(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		return fmt.Errorf("update expense %s: %w", e.ID, core.ErrNotFound)
	}
	s.items[e.ID] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("delete expense %s: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (s *Store) Find(_ context.Context, f core.Filter, offset, limit int) ([]core.Expense, error) {
	if offset < 0 {
		return nil, fmt.Errorf("find expenses: negative offset %d", offset)
	}
	matches := s.match(f)
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if offset >= len(matches) {
		return []core.Expense{}, nil
	}
	end := len(matches)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return matches[offset:end], nil
}

func (s *Store) Count(_ context.Context, f core.Filter) (int, error) {
	return len(s.match(f)), nil
}

func (s *Store) GroupTotals(_ context.Context, f core.Filter) ([]core.GroupTotal, error) {
	groups := map[groupKey]*core.GroupTotal{}
	for _, e := range s.match(f) {
		d := e.Date.UTC()
		k := groupKey{category: e.Category, year: d.Year(), month: int(d.Month())}
		g, ok := groups[k]
		if !ok {
			g = &core.GroupTotal{Category: k.category, Year: k.year, Month: k.month}
			groups[k] = g
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
	}

	out := make([]core.GroupTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) match(f core.Filter) []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
