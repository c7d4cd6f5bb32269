package http

import (
	"net/http"
	"strings"

	"spendlog/internal/services"
)

// filterParams reads the list and summary filter from the query string.
func filterParams(r *http.Request) services.FilterParams {
	q := r.URL.Query()
	return services.FilterParams{
		Category:  sanitizeInput(q.Get("category")),
		StartDate: sanitizeInput(q.Get("startDate")),
		EndDate:   sanitizeInput(q.Get("endDate")),
	}
}

// pathID returns the {id} path segment, sanitized.
func pathID(r *http.Request) string {
	return sanitizeInput(r.PathValue("id"))
}

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
