package log

// Field names shared by every log line.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldExpenseID   = "expense_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldBackend     = "backend"
)

// Components
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentExpense   = "expense"
	ComponentQuery     = "query"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentMigrate   = "migrate"
)

// Operations
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpSummarize = "summarize"
	OpMigrate   = "migrate"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// Error types, used to group failures in log queries.
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeInvalidFilter = "invalid_filter"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeInternal      = "internal_error"
	ErrorTypeCanceled      = "client_canceled"
)

// LogFields is a builder for structured log attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithExpense(id string, amountCents int64, category string) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmountCents] = amountCents
	f[FieldCategory] = category
	return f
}

// ToSlice converts the fields to slog key/value arguments.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
