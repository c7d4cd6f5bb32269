package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"spendlog/internal/amqp"
)

type fakeSource struct {
	events []*amqp.ExpenseEvent
	err    error
}

func (f *fakeSource) ConsumeExpenseEvents(ctx context.Context, handler func(context.Context, *amqp.ExpenseEvent) error) error {
	for _, ev := range f.events {
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

type counter struct{ n int }

func (c *counter) Invalidate() { c.n++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunInvalidatesEveryTarget(t *testing.T) {
	src := &fakeSource{events: []*amqp.ExpenseEvent{
		amqp.NewExpenseEvent(amqp.EventExpenseCreated, "a"),
		amqp.NewExpenseEvent(amqp.EventExpenseDeleted, "b"),
	}}
	first, second := &counter{}, &counter{}
	w := NewInvalidationWorker(src, quietLogger(), first, second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v, want nil on cancel", err)
	}
	if first.n != 2 || second.n != 2 {
		t.Errorf("invalidations = %d/%d, want 2/2", first.n, second.n)
	}
	if w.Handled() != 2 {
		t.Errorf("Handled() = %d, want 2", w.Handled())
	}
}

func TestRunReturnsConsumerFailure(t *testing.T) {
	boom := errors.New("channel closed for good")
	w := NewInvalidationWorker(&fakeSource{err: boom}, quietLogger())

	if err := w.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}
