package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/amqp"
	"spendlog/internal/store"
	"spendlog/internal/store/memory"
	"spendlog/internal/store/postgres"
	"spendlog/internal/store/sqlite"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the configured store, running its migrations first,
// and connects to AMQP when a URL is set. An unreachable broker is logged and
// the backend starts without events.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	st, err := f.openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	var events *amqp.Client
	if config.AMQPURL != "" {
		events, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
			events = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"instance_id", events.InstanceID())
		}
	}

	f.logger.Info("Initialized backend",
		"backend", config.Type,
		"amqp_enabled", events != nil)

	return &BackendResult{
		Store:  st,
		Events: events,
		Cleanup: func() error {
			var errs []error
			if events != nil {
				errs = append(errs, events.Close())
			}
			errs = append(errs, st.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) openStore(ctx context.Context, config Config) (store.Store, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using in-memory store, records are lost on restart")
		return memory.New(), nil
	case SQLiteBackend:
		st, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite store: %w", err)
		}
		f.logger.Info("Opened SQLite store", "db_path", config.SQLiteDBPath)
		return st, nil
	case PostgresBackend:
		st, err := postgres.Open(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize Postgres store: %w", err)
		}
		f.logger.Info("Opened Postgres store")
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// Migrate applies pending schema migrations for the configured backend.
// The memory backend has no schema.
func Migrate(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	switch config.Type {
	case SQLiteBackend:
		return sqlite.RunMigrations(config.SQLiteDBPath)
	case PostgresBackend:
		return postgres.RunMigrations(config.DatabaseURL)
	default:
		return nil
	}
}
