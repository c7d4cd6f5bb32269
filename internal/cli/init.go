// Package cli holds the startup steps shared by the cmd binaries.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendlog/internal/config"
	"spendlog/internal/log"
)

// LoadEnvFile loads a .env file for local development. A missing file is not
// an error; production sets the environment directly.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the slog
// default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	lc.Format = cfg.LogFormat
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	}

	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits the process when it is
// invalid.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownStep is one resource to release during shutdown.
type ShutdownStep struct {
	Name string
	Stop func(ctx context.Context) error
}

// Shutdown runs steps in order under a shared timeout. Every step runs even
// when an earlier one fails; the failures are joined.
func Shutdown(logger *log.Logger, timeout time.Duration, steps ...ShutdownStep) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, step := range steps {
		if err := step.Stop(ctx); err != nil {
			logger.Error("Shutdown step failed",
				"step", step.Name,
				log.FieldOperation, log.OpShutdown,
				log.FieldError, err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Shutdown step complete", "step", step.Name)
	}

	if ctx.Err() != nil {
		logger.Warn("Shutdown timeout reached", "timeout", timeout)
	}
	return errors.Join(errs...)
}
