package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"spendlog/internal/backend"
	"spendlog/internal/cache"
	"spendlog/internal/cli"
	"spendlog/internal/core"
	apphttp "spendlog/internal/http"
	"spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/worker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()))
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldBackend, bcfg.Type,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase)
		os.Exit(1)
	}

	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	var summaries *cache.LRUCache[core.Summary]
	if cfg.SummaryCacheEnabled() {
		summaries = cache.NewLRUCache[core.Summary](cfg.CacheSize, cfg.CacheTTL)
		cacheManager.Register(summaries)
		cacheManager.StartCleanup(cfg.CacheTTL)
	}
	queries := services.NewQueryService(res.Store, summaries)

	opts := []services.Option{services.WithChangeHook(queries.Invalidate)}
	if res.Events != nil {
		opts = append(opts, services.WithPublisher(res.Events))
		invalidator := worker.NewInvalidationWorker(res.Events, logger.WithComponent(log.ComponentAMQP).Logger, queries)
		go func() { _ = invalidator.Run(ctx) }()
	}
	expenses := services.NewExpenseService(res.Store, opts...)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               cfg.Addr(),
		Version:            version,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		MaxPageLimit:       cfg.MaxPageLimit,
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		TrustedProxies:     cfg.TrustedProxies,
	}, expenses, queries, res.Store, logger)
	if err != nil {
		logger.Error("Failed to configure HTTP server", log.FieldError, err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting spendlog server",
			"addr", srv.Addr,
			log.FieldBackend, bcfg.Type,
			"version", version,
			"summary_cache", cfg.SummaryCacheEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server error", log.FieldError, err, "addr", srv.Addr)
			exitCode = 1
		}
	}
	stop()

	err = cli.Shutdown(logger, cfg.ShutdownTimeout,
		cli.ShutdownStep{Name: "http", Stop: srv.Shutdown},
		cli.ShutdownStep{Name: "cache", Stop: func(context.Context) error {
			cacheManager.Stop()
			return nil
		}},
		cli.ShutdownStep{Name: "backend", Stop: func(context.Context) error {
			return res.Cleanup()
		}},
	)
	if err != nil {
		exitCode = 1
	}

	logger.Info("Server stopped")
	os.Exit(exitCode)
}
