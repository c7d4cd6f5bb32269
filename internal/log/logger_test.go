package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentHTTP, Output: &buf})
	l.Info("hello", FieldExpenseID, "e1")
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec[FieldComponent] != ComponentHTTP || rec[FieldExpenseID] != "e1" || rec["msg"] != "hello" {
		t.Errorf("record = %v", rec)
	}
	if l.Component() != ComponentHTTP {
		t.Errorf("Component() = %q", l.Component())
	}
}

func TestMiddlewareCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"request_id":"req_1"`) {
		t.Errorf("request id missing from %s", buf.String())
	}
}

func TestFromContextFallsBack(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if FromContext(r.Context()) == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestFieldsToSlice(t *testing.T) {
	f := NewFields().WithComponent(ComponentExpense).WithOperation(OpCreate).WithError(nil, ErrorTypeInternal)
	if len(f.ToSlice()) != 4 {
		t.Errorf("ToSlice() = %v", f.ToSlice())
	}
	f.WithRequestID("")
	if _, ok := f[FieldRequestID]; ok {
		t.Error("empty request id should be omitted")
	}
}
