// Package backend builds the storage and event plumbing selected by
// configuration.
package backend

import (
	"context"

	"spendlog/internal/amqp"
	"spendlog/internal/store"
)

// CleanupFunc releases resources acquired by the factory.
type CleanupFunc func() error

// BackendResult is what a factory hands to the server.
type BackendResult struct {
	Store store.Store
	// Events is nil when AMQP is not configured or unreachable at startup.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	DatabaseURL string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
