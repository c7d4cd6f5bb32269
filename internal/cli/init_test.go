package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"spendlog/internal/config"
	"spendlog/internal/log"
)

func TestShutdownRunsEveryStep(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	boom := errors.New("boom")

	var order []string
	step := func(name string, err error) ShutdownStep {
		return ShutdownStep{Name: name, Stop: func(context.Context) error {
			order = append(order, name)
			return err
		}}
	}

	err := Shutdown(logger, time.Second, step("server", nil), step("store", boom), step("cache", nil))
	if !errors.Is(err, boom) {
		t.Errorf("Shutdown() error = %v, want boom", err)
	}
	if len(order) != 3 || order[0] != "server" || order[2] != "cache" {
		t.Errorf("steps ran in order %v", order)
	}
}

func TestShutdownPassesDeadline(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})
	err := Shutdown(logger, time.Minute, ShutdownStep{Name: "check", Stop: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	}})
	if err != nil {
		t.Error(err)
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, log.ComponentMigrate)
	if logger.Component() != log.ComponentMigrate {
		t.Errorf("Component() = %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
}
