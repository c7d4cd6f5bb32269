package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"spendlog/internal/cache"
	"spendlog/internal/core"
	"spendlog/internal/store"
)

// sharedSummaryTimeout bounds a summary computation that several requests
// may be waiting on.
const sharedSummaryTimeout = 30 * time.Second

// QueryStore is the read side a QueryService needs.
type QueryStore interface {
	store.ExpenseQuerier
	store.ExpenseAggregator
}

// QueryService answers list, summary and category queries. Summaries are
// cached per filter when a cache is supplied.
type QueryService struct {
	store     QueryStore
	summaries *cache.LRUCache[core.Summary]
	flights   singleflight.Group
}

// NewQueryService creates the service. A nil cache disables summary caching.
func NewQueryService(s QueryStore, summaries *cache.LRUCache[core.Summary]) *QueryService {
	return &QueryService{store: s, summaries: summaries}
}

// List returns one page of records matching f, ordered newest first, along
// with the total number of matches. The page query and the count run
// concurrently; either failing fails the call.
func (q *QueryService) List(ctx context.Context, f core.Filter, p core.Page) (core.ListResult, error) {
	var (
		records []core.Expense
		total   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = q.store.Find(gctx, f, p.Offset(), p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = q.store.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.ListResult{}, storeError("list expenses", err)
	}

	if records == nil {
		records = []core.Expense{}
	}
	return core.ListResult{
		Records: records,
		Total:   total,
		Page:    p.Number,
		Pages:   p.Pages(total),
		Limit:   p.Limit,
	}, nil
}

// Summarize aggregates every record matching f.
func (q *QueryService) Summarize(ctx context.Context, f core.Filter) (core.Summary, error) {
	if q.summaries == nil {
		return q.summarize(ctx, f)
	}

	key := f.Key()
	if s, ok := q.summaries.Get(key); ok {
		return s, nil
	}

	// Misses in the same cache generation share one store round trip. The
	// shared call outlives any single caller; each caller stops waiting when
	// its own context ends.
	gen := q.summaries.Generation()
	ch := q.flights.DoChan(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedSummaryTimeout)
		defer cancel()
		s, err := q.summarize(sctx, f)
		if err == nil {
			q.summaries.SetIfGeneration(gen, key, s)
		}
		return s, err
	})

	select {
	case <-ctx.Done():
		return core.Summary{}, fmt.Errorf("summarize expenses: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return core.Summary{}, res.Err
		}
		return res.Val.(core.Summary), nil
	}
}

func (q *QueryService) summarize(ctx context.Context, f core.Filter) (core.Summary, error) {
	groups, err := q.store.GroupTotals(ctx, f)
	if err != nil {
		return core.Summary{}, storeError("summarize expenses", err)
	}
	return BuildSummary(groups), nil
}

// Invalidate drops every cached summary.
func (q *QueryService) Invalidate() {
	if q.summaries != nil {
		q.summaries.Clear()
	}
}

// CachedSummaries reports how many summaries are cached.
func (q *QueryService) CachedSummaries() int {
	if q.summaries == nil {
		return 0
	}
	return q.summaries.Size()
}

// Categories returns the selectable categories, "All" first.
func (q *QueryService) Categories() []core.Category {
	return core.Categories()
}

// storeError classifies a store failure. Missing records keep ErrNotFound;
// anything else becomes ErrStoreUnavailable with the cause attached.
func storeError(op string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
}
