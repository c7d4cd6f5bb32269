// Command spendlog-migrate applies schema migrations for the configured
// backend and exits.
package main

import (
	"os"

	"spendlog/internal/backend"
	"spendlog/internal/cli"
	"spendlog/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()))
	logger := cli.SetupLogger(cfg, log.ComponentMigrate)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	if bcfg.Type == backend.MemoryBackend {
		logger.Info("Memory backend has no schema, nothing to migrate")
		return
	}

	logger.Info("Applying migrations", log.FieldBackend, bcfg.Type, log.FieldOperation, log.OpMigrate)
	if err := backend.Migrate(bcfg); err != nil {
		logger.Error("Migration failed",
			log.FieldBackend, bcfg.Type,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase)
		os.Exit(1)
	}
	logger.Info("Migrations applied", log.FieldBackend, bcfg.Type)
}
