package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/store"
)

// RecordStore is the storage an ExpenseService writes through.
type RecordStore interface {
	store.ExpenseReader
	store.ExpenseWriter
}

// EventPublisher announces record changes to other processes.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// ExpenseService creates, reads, updates and deletes single records.
// After every successful write it runs the change hooks and publishes an
// event; a failed publish is logged and does not fail the write.
type ExpenseService struct {
	store     RecordStore
	publisher EventPublisher
	onChange  []func()
	now       func() time.Time
	newID     func() string
}

type Option func(*ExpenseService)

func WithPublisher(p EventPublisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

// WithChangeHook registers fn to run after every successful write.
func WithChangeHook(fn func()) Option {
	return func(s *ExpenseService) { s.onChange = append(s.onChange, fn) }
}

func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *ExpenseService) { s.newID = newID }
}

func NewExpenseService(s RecordStore, opts ...Option) *ExpenseService {
	svc := &ExpenseService{
		store: s,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, storeError("get expense", err)
	}
	return e, nil
}

// Create validates in and stores a new record. Nothing is stored when
// validation fails.
func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	e, err := core.NewExpense(in, s.newID(), s.now())
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.store.Insert(ctx, e); err != nil {
		return core.Expense{}, storeError("create expense", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"amount", e.Amount.String(),
		"category", e.Category)
	s.changed(ctx, amqp.EventExpenseCreated, e.ID)
	return e, nil
}

// Update applies the supplied fields of in to the record with the given id.
func (s *ExpenseService) Update(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, storeError("update expense", err)
	}

	updated, err := current.Apply(in, s.now())
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.store.Update(ctx, updated); err != nil {
		return core.Expense{}, storeError("update expense", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", id)
	s.changed(ctx, amqp.EventExpenseUpdated, id)
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError("delete expense", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	s.changed(ctx, amqp.EventExpenseDeleted, id)
	return nil
}

func (s *ExpenseService) changed(ctx context.Context, t amqp.EventType, id string) {
	for _, fn := range s.onChange {
		fn()
	}

	if s.publisher == nil {
		return
	}
	// The write already happened; a client disconnect must not drop the event.
	if err := s.publisher.PublishExpenseEvent(context.WithoutCancel(ctx), amqp.NewExpenseEvent(t, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"type", t,
			"id", id,
			"error", err)
	}
}
