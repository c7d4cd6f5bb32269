package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/store/memory"
)

var errBoom = errors.New("disk on fire")

// countingStore wraps the memory store and counts aggregate calls.
type countingStore struct {
	*memory.Store
	groupCalls atomic.Int32
	failFind   bool
	failCount  bool
	failGroup  bool
	failWrite  bool
}

func newCountingStore(seed ...core.Expense) *countingStore {
	return &countingStore{Store: memory.New(seed...)}
}

func (s *countingStore) Find(ctx context.Context, f core.Filter, offset, limit int) ([]core.Expense, error) {
	if s.failFind {
		return nil, errBoom
	}
	return s.Store.Find(ctx, f, offset, limit)
}

func (s *countingStore) Count(ctx context.Context, f core.Filter) (int, error) {
	if s.failCount {
		return 0, errBoom
	}
	return s.Store.Count(ctx, f)
}

func (s *countingStore) GroupTotals(ctx context.Context, f core.Filter) ([]core.GroupTotal, error) {
	s.groupCalls.Add(1)
	if s.failGroup {
		return nil, errBoom
	}
	return s.Store.GroupTotals(ctx, f)
}

func (s *countingStore) Insert(ctx context.Context, e core.Expense) error {
	if s.failWrite {
		return errBoom
	}
	return s.Store.Insert(ctx, e)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.ExpenseEvent
	err    error
}

func (p *fakePublisher) PublishExpenseEvent(_ context.Context, ev *amqp.ExpenseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
