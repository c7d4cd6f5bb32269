package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParserJSON(t *testing.T) {
	p := newParser(t, "application/json", `{"amount": 12.345, "note": "  lunch\u0007 ", "category": null, "date": "2024-01-05"}`)

	if got, _ := p.Lookup("amount"); got != "12.345" {
		t.Errorf("amount = %q, want exact number text", got)
	}
	if got, _ := p.Lookup("note"); got != "lunch" {
		t.Errorf("note = %q, want sanitized %q", got, "lunch")
	}
	if _, ok := p.Lookup("category"); ok {
		t.Error("null category should count as not supplied")
	}

	in := p.ExpenseInput()
	if in.Amount == nil || in.Date == nil || in.Note == nil {
		t.Fatal("supplied fields missing from ExpenseInput")
	}
	if in.Category != nil {
		t.Error("Category should be nil")
	}
}

func TestRequestBodyParserForm(t *testing.T) {
	p := newParser(t, "application/x-www-form-urlencoded", "amount=12%2C50&category=Food&note=")

	if got, _ := p.Lookup("amount"); got != "12,50" {
		t.Errorf("amount = %q", got)
	}
	if _, ok := p.Lookup("note"); !ok {
		t.Error("empty note was supplied and should be present")
	}
	if _, ok := p.Lookup("date"); ok {
		t.Error("date was not supplied")
	}
}

func TestRequestBodyParserEmptyBody(t *testing.T) {
	p := newParser(t, "", "")
	in := p.ExpenseInput()
	if in.Amount != nil || in.Date != nil || in.Note != nil || in.Category != nil {
		t.Errorf("empty body produced fields: %+v", in)
	}
}

func TestRequestBodyParserMalformed(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"broken json", "application/json", `{"amount": `},
		{"json array", "application/json", `[1, 2]`},
		{"oversized", "", strings.Repeat("a", maxBodyBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			if err := NewRequestBodyParser(req).Parse(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"line\nbreak", "line\nbreak"},
		{"tab\there", "tab\there"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
