package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"spendlog/internal/config"
	"spendlog/internal/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("unknown backend should fail")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "postgres",
		DatabaseURL:  "postgres://localhost/spendlog",
		AMQPExchange: "events",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != PostgresBackend || cfg.DatabaseURL == "" || cfg.AMQPExchange != "events" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(quietLogger())

	for _, cfg := range []Config{
		{Type: MemoryBackend},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "spendlog.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			if res.Events != nil {
				t.Error("events should be disabled without an AMQP URL")
			}
			if err := res.Store.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
			if n, err := res.Store.Count(ctx, core.Filter{}); err != nil || n != 0 {
				t.Errorf("Count() = %d, %v", n, err)
			}
			if err := res.Cleanup(); err != nil {
				t.Errorf("Cleanup() error = %v", err)
			}
		})
	}
}

func TestMigrate(t *testing.T) {
	if err := Migrate(Config{Type: MemoryBackend}); err != nil {
		t.Errorf("memory migrate: %v", err)
	}

	cfg := Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "m.db")}
	if err := Migrate(cfg); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(cfg); err != nil {
		t.Errorf("migrate is not idempotent: %v", err)
	}
}
