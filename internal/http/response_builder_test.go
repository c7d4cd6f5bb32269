package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spendlog/internal/core"
)

func TestJSONResponseBuilderSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusCreated).Header("Location", "/x").Data(map[string]int{"n": 1}).Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/x" {
		t.Errorf("Location header missing")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true,"data":{"n":1}}` {
		t.Errorf("body = %s", got)
	}
}

func TestJSONResponseBuilderErrors(t *testing.T) {
	tests := []struct {
		name   string
		b      *JSONResponseBuilder
		status int
		body   string
	}{
		{"bad request", BadRequestError("nope"), 400, `{"success":false,"error":"nope"}`},
		{"not found", NotFoundError("Expense not found"), 404, `{"success":false,"error":"Expense not found"}`},
		{"server error", InternalServerError(), 500, `{"success":false,"error":"Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.b.Write(rec)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Body.String(); got != tt.body {
				t.Errorf("body = %s, want %s", got, tt.body)
			}
		})
	}
}

func TestJSONResponseBuilderEmptyPage(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Page(core.ListResult{Page: 3, Limit: 10}).Write(rec)

	want := `{"success":true,"count":0,"total":0,"pagination":{"page":3,"pages":0,"limit":10},"data":[]}`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %s\nwant  %s", got, want)
	}
}

func TestExpenseDTO(t *testing.T) {
	at := time.Date(2024, 1, 5, 13, 4, 5, 120_000_000, time.UTC)
	dto := newExpenseDTO(core.Expense{
		ID:        "a",
		Amount:    core.MoneyFromCents(1250),
		Date:      at,
		Note:      "lunch",
		Category:  core.CategoryFood,
		CreatedAt: at,
		UpdatedAt: at,
	})

	b, err := json.Marshal(dto)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"a","amount":12.5,"date":"2024-01-05T13:04:05.120Z","note":"lunch","category":"Food",` +
		`"formattedDate":"2024-01-05","createdAt":"2024-01-05T13:04:05.120Z","updatedAt":"2024-01-05T13:04:05.120Z"}`
	if string(b) != want {
		t.Errorf("json = %s\nwant   %s", b, want)
	}
}
