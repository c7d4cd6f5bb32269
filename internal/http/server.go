package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/services"
)

const readyTimeout = 5 * time.Second

// Config holds the transport settings of the API server.
type Config struct {
	Addr               string
	Version            string
	RateLimitPerMinute int
	// MaxPageLimit caps the page size; 0 leaves it unbounded.
	MaxPageLimit      int
	CORSAllowedOrigin string
	TrustedProxies    []string
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	expenses *services.ExpenseService
	queries  *services.QueryService
	store    Pinger
	logger   *log.Logger

	version      string
	maxPageLimit int

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware
	startedAt       time.Time
	shutdownOnce    sync.Once
}

// NewServer wires routes and middleware and returns a server ready to
// ListenAndServe.
func NewServer(cfg Config, expenses *services.ExpenseService, queries *services.QueryService, store Pinger, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	trusted := cfg.TrustedProxies
	if trusted == nil {
		trusted = security.DefaultTrustedProxies
	}
	ipExtractor, err := security.NewClientIPExtractor(trusted)
	if err != nil {
		return nil, fmt.Errorf("configure client IP extraction: %w", err)
	}

	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		expenses:     expenses,
		queries:      queries,
		store:        store,
		logger:       logger,
		version:      cfg.Version,
		maxPageLimit: cfg.MaxPageLimit,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			Methods:           []string{http.MethodPost, http.MethodPut, http.MethodDelete},
		}),
		traceMiddleware: trace.NewMiddleware(ipExtractor.ExtractClientIP),
		startedAt:       time.Now(),
	}
	if s.version == "" {
		s.version = "dev"
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(ipExtractor.ExtractClientIP, s.handleRateLimited)(handler)
	handler = security.CORSMiddleware(cfg.CORSAllowedOrigin)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(trace.FromRequest)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/expenses/summary/summary", s.handleSummary)
	mux.HandleFunc("GET /api/expenses/summary", s.handleSummary)
	mux.HandleFunc("GET /api/expenses/meta/categories", s.handleCategories)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
}

// Shutdown stops background work and drains the HTTP server. Only the first
// call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
