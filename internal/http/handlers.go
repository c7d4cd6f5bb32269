package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/services"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"message": "Personal Expense Tracker API",
		"version": s.version,
		"endpoints": map[string]string{
			"GET /api/expenses":                 "Get all expenses with filtering and pagination",
			"GET /api/expenses/{id}":            "Get single expense",
			"POST /api/expenses":                "Create new expense",
			"PUT /api/expenses/{id}":            "Update expense",
			"DELETE /api/expenses/{id}":         "Delete expense",
			"GET /api/expenses/summary/summary": "Get expense summary reports",
			"GET /api/expenses/meta/categories": "Get available categories",
		},
		"queryParameters": map[string]string{
			"category":  "Filter by category",
			"startDate": "Filter from date (YYYY-MM-DD)",
			"endDate":   "Filter to date (YYYY-MM-DD)",
			"page":      "Page number for pagination",
			"limit":     "Number of items per page",
		},
	}).Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports 503 until the store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]any{
		"rate_limiter": map[string]any{"active_clients": s.rateLimiter.ActiveClients()},
		"cache":        map[string]any{"summaries": s.queries.CachedSummaries()},
	}

	if s.store == nil {
		checks["store"] = "not_configured"
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	if err := s.store.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeDatabase)
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	checks["store"] = "ok"

	NewJSONResponse().Data(map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	limitMetrics := s.rateLimiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_requests_failed_total Requests answered with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_requests_failed_total counter\n")
	fmt.Fprintf(w, "http_requests_failed_total %d\n\n", traceMetrics.FailedRequests)

	fmt.Fprintf(w, "# HELP rate_limited_requests_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limited_requests_total counter\n")
	fmt.Fprintf(w, "rate_limited_requests_total %d\n\n", limitMetrics.LimitedRequests)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", limitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP summary_cache_entries Cached summaries\n")
	fmt.Fprintf(w, "# TYPE summary_cache_entries gauge\n")
	fmt.Fprintf(w, "summary_cache_entries %d\n\n", s.queries.CachedSummaries())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.startedAt).Seconds())
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := services.ResolveFilter(filterParams(r))
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	q := r.URL.Query()
	page := services.ResolvePage(q.Get("page"), q.Get("limit"), s.maxPageLimit)

	res, err := s.queries.List(r.Context(), f, page)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Page(res).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := services.ResolveSummaryFilter(filterParams(r))
	if err != nil {
		s.writeError(w, r, log.OpSummarize, err)
		return
	}

	sum, err := s.queries.Summarize(r.Context(), f)
	if err != nil {
		s.writeError(w, r, log.OpSummarize, err)
		return
	}
	NewJSONResponse().Data(newSummaryDTO(sum)).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.queries.Categories()).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(newExpenseDTO(e)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	e, err := s.expenses.Create(r.Context(), parser.ExpenseInput())
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+e.ID).
		Data(newExpenseDTO(e)).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	e, err := s.expenses.Update(r.Context(), pathID(r), parser.ExpenseInput())
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(newExpenseDTO(e)).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), pathID(r)); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Data(struct{}{}).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

// writeError maps service errors to status codes. Store failures are logged
// with their cause and reported to the client as a bare "Server Error".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.InfoContext(ctx, "Rejected invalid expense",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeValidation).ToSlice()...)
		BadRequestError(verr.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidFilter):
		logger.InfoContext(ctx, "Rejected invalid filter",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeInvalidFilter).ToSlice()...)
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("Expense not found").Write(w)
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads this response.
		logger.InfoContext(ctx, "Request cancelled by client",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeCanceled).ToSlice()...)
		InternalServerError().Write(w)
	default:
		logger.ErrorContext(ctx, "Request failed",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeDatabase).ToSlice()...)
		InternalServerError().Write(w)
	}
}
