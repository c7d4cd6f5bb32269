// Package worker runs background consumers of expense change events.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"spendlog/internal/amqp"
)

// EventSource delivers expense change events until ctx is done.
type EventSource interface {
	ConsumeExpenseEvents(ctx context.Context, handler func(context.Context, *amqp.ExpenseEvent) error) error
}

// Invalidator drops derived state that a record change makes stale.
type Invalidator interface {
	Invalidate()
}

// InvalidationWorker keeps this replica's caches consistent with writes made
// by other replicas.
type InvalidationWorker struct {
	events  EventSource
	targets []Invalidator
	logger  *slog.Logger
	handled atomic.Int64
}

func NewInvalidationWorker(events EventSource, logger *slog.Logger, targets ...Invalidator) *InvalidationWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvalidationWorker{events: events, targets: targets, logger: logger}
}

// HandleExpenseEvent processes a single change event.
func (w *InvalidationWorker) HandleExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	w.logger.DebugContext(ctx, "Expense changed elsewhere, invalidating caches",
		"type", ev.Type,
		"expense_id", ev.ID,
		"source", ev.Source)

	for _, t := range w.targets {
		t.Invalidate()
	}
	w.handled.Add(1)
	return nil
}

// Run consumes events until ctx is cancelled. A cancelled context is a clean
// stop and returns nil.
func (w *InvalidationWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Invalidation worker started")
	err := w.events.ConsumeExpenseEvents(ctx, w.HandleExpenseEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.ErrorContext(ctx, "Invalidation worker stopped", "error", err)
		return err
	}
	w.logger.InfoContext(ctx, "Invalidation worker stopped", "events_handled", w.handled.Load())
	return nil
}

// Handled reports how many events have been processed.
func (w *InvalidationWorker) Handled() int64 {
	return w.handled.Load()
}
