package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"spendlog/internal/core"
)

// jsonTimeLayout renders instants in UTC with millisecond precision.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// JSONResponseBuilder builds the API envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "..."}
//
// List responses also carry count, total and pagination.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	envelope   envelope
}

type envelope struct {
	Success    bool        `json:"success"`
	Count      *int        `json:"count,omitempty"`
	Total      *int        `json:"total,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewJSONResponse starts a successful 200 response.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
		envelope:   envelope{Success: true},
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Data(data any) *JSONResponseBuilder {
	b.envelope.Data = data
	return b
}

// Page adds the list metadata of res and sets its records as data.
func (b *JSONResponseBuilder) Page(res core.ListResult) *JSONResponseBuilder {
	count := len(res.Records)
	total := res.Total
	b.envelope.Count = &count
	b.envelope.Total = &total
	b.envelope.Pagination = &pagination{Page: res.Page, Pages: res.Pages, Limit: res.Limit}
	return b.Data(expenseDTOs(res.Records))
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	body, err := json.Marshal(b.envelope)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Server Error"}`))
		return
	}
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
}

// ErrorResponse creates a failure envelope.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	b := NewJSONResponse().Status(statusCode)
	b.envelope.Success = false
	b.envelope.Error = message
	return b
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalServerError never carries detail; the cause is logged instead.
func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "Server Error")
}

type expenseDTO struct {
	ID            string      `json:"id"`
	Amount        json.Number `json:"amount"`
	Date          string      `json:"date"`
	Note          string      `json:"note"`
	Category      string      `json:"category"`
	FormattedDate string      `json:"formattedDate"`
	CreatedAt     string      `json:"createdAt"`
	UpdatedAt     string      `json:"updatedAt"`
}

func newExpenseDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:            e.ID,
		Amount:        moneyJSON(e.Amount),
		Date:          formatTime(e.Date),
		Note:          e.Note,
		Category:      string(e.Category),
		FormattedDate: e.FormattedDate(),
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}
}

func expenseDTOs(records []core.Expense) []expenseDTO {
	out := make([]expenseDTO, 0, len(records))
	for _, e := range records {
		out = append(out, newExpenseDTO(e))
	}
	return out
}

type summaryDTO struct {
	TotalAmount     json.Number        `json:"totalAmount"`
	TotalExpenses   int                `json:"totalExpenses"`
	CategorySummary []categoryTotalDTO `json:"categorySummary"`
	MonthlySummary  []monthTotalDTO    `json:"monthlySummary"`
}

type categoryTotalDTO struct {
	Category    string      `json:"category"`
	TotalAmount json.Number `json:"totalAmount"`
	Count       int         `json:"count"`
	Percentage  float64     `json:"percentage"`
}

type monthTotalDTO struct {
	Year        int         `json:"year"`
	Month       int         `json:"month"`
	Period      string      `json:"period"`
	TotalAmount json.Number `json:"totalAmount"`
	Count       int         `json:"count"`
}

func newSummaryDTO(s core.Summary) summaryDTO {
	dto := summaryDTO{
		TotalAmount:     moneyJSON(s.TotalAmount),
		TotalExpenses:   s.TotalExpenses,
		CategorySummary: make([]categoryTotalDTO, 0, len(s.CategorySummary)),
		MonthlySummary:  make([]monthTotalDTO, 0, len(s.MonthSummary)),
	}
	for _, c := range s.CategorySummary {
		dto.CategorySummary = append(dto.CategorySummary, categoryTotalDTO{
			Category:    string(c.Category),
			TotalAmount: moneyJSON(c.TotalAmount),
			Count:       c.Count,
			Percentage:  c.Percentage,
		})
	}
	for _, m := range s.MonthSummary {
		dto.MonthlySummary = append(dto.MonthlySummary, monthTotalDTO{
			Year:        m.Year,
			Month:       m.Month,
			Period:      m.Period,
			TotalAmount: moneyJSON(m.TotalAmount),
			Count:       m.Count,
		})
	}
	return dto
}

// moneyJSON emits an exact decimal number, e.g. 12.5 for 1250 cents.
func moneyJSON(m core.Money) json.Number {
	return json.Number(m.Decimal().String())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(jsonTimeLayout)
}
