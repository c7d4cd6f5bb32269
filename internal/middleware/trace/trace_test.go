package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	m := NewMiddleware(func(*http.Request) string { return "1.2.3.4" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if !strings.HasPrefix(seen, "req_") || len(seen) != len("req_")+16 {
		t.Errorf("request id = %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get(HeaderRequestID), seen)
	}
	if got := m.GetMetrics(); got.TotalRequests != 1 || got.FailedRequests != 0 {
		t.Errorf("metrics = %+v", got)
	}
}

func TestMiddlewareKeepsValidIncomingID(t *testing.T) {
	m := NewMiddleware(nil)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for _, tc := range []struct {
		in   string
		keep bool
	}{
		{"abc-123", true},
		{"bad id with spaces", false},
		{strings.Repeat("a", 65), false},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, tc.in)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get(HeaderRequestID)
		if (got == tc.in) != tc.keep {
			t.Errorf("incoming %q: response id %q, keep=%v", tc.in, got, tc.keep)
		}
	}
	if m.GetMetrics().FailedRequests != 3 {
		t.Errorf("failed = %d, want 3", m.GetMetrics().FailedRequests)
	}
}
