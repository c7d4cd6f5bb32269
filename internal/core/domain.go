package core

import (
	"fmt"
	"strings"
	"time"

	"spendlog/internal/validator"
)

const MaxNoteLength = 200

type (
	// Expense is a single spending event.
	Expense struct {
		ID        string
		Amount    Money
		Date      time.Time
		Note      string
		Category  Category
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// ExpenseInput carries raw client values for a create or a partial update.
	// A nil field was not supplied.
	ExpenseInput struct {
		Amount   *string
		Date     *string
		Note     *string
		Category *string
	}

	expenseRules struct {
		Amount   int64     `label:"Amount" validate:"gt=0"`
		Date     time.Time `label:"Date" validate:"required"`
		Note     string    `label:"Note" validate:"max=200"`
		Category string    `label:"Category" validate:"required,expense_category"`
	}
)

func init() {
	if err := validator.RegisterStringRule("expense_category", func(s string) bool {
		return Category(s).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("register expense_category rule: %v", err))
	}
}

// FormattedDate returns the record's calendar day as YYYY-MM-DD.
func (e Expense) FormattedDate() string {
	return e.Date.UTC().Format(DateLayout)
}

// Validate checks every record rule and reports all violations at once.
func (e Expense) Validate() error {
	return e.validate(nil)
}

func (e Expense) validate(parseErrs []fieldMessage) error {
	rules := expenseRules{
		Amount:   e.Amount.Cents,
		Date:     e.Date,
		Note:     e.Note,
		Category: string(e.Category),
	}

	msgs := make([]string, 0, len(parseErrs))
	skip := make([]string, 0, len(parseErrs))
	for _, pe := range parseErrs {
		msgs = append(msgs, pe.message)
		skip = append(skip, pe.field)
	}
	msgs = append(msgs, validator.Check(rules, expenseMessage, skip...)...)

	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

type fieldMessage struct {
	field   string
	message string
}

func expenseMessage(fe validator.FieldError) string {
	if fe.Tag() == "expense_category" {
		return fmt.Sprintf("'%v' is not a valid category", fe.Value())
	}
	return validator.DefaultMessage(fe)
}

// NewExpense builds a validated record from client input. The date defaults
// to now and the category to DefaultCategory.
func NewExpense(in ExpenseInput, id string, now time.Time) (Expense, error) {
	now = NormalizeTime(now)
	e := Expense{
		ID:        id,
		Date:      now,
		Category:  DefaultCategory,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.validate(e.assign(in, true)); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Apply returns a copy of e with the supplied fields of in replaced, then
// validates the result. The receiver is never modified.
func (e Expense) Apply(in ExpenseInput, now time.Time) (Expense, error) {
	out := e
	if err := out.validate(out.assign(in, false)); err != nil {
		return Expense{}, err
	}
	out.UpdatedAt = NormalizeTime(now)
	return out, nil
}

// assign copies supplied input onto e and returns parse failures in field
// order. On create an empty date or category keeps the default.
func (e *Expense) assign(in ExpenseInput, creating bool) []fieldMessage {
	var msgs []fieldMessage

	if in.Amount != nil {
		m, err := ParseMoney(*in.Amount)
		if err != nil {
			msgs = append(msgs, fieldMessage{"Amount", "Amount must be a valid number"})
		}
		e.Amount = m
	}

	if in.Date != nil {
		raw := strings.TrimSpace(*in.Date)
		switch {
		case raw == "" && creating:
		case raw == "":
			e.Date = time.Time{}
		default:
			t, _, err := ParseDate(raw)
			if err != nil {
				msgs = append(msgs, fieldMessage{"Date", fmt.Sprintf("'%s' is not a valid date", raw)})
			} else {
				e.Date = t
			}
		}
	}

	if in.Note != nil {
		e.Note = strings.TrimSpace(*in.Note)
	}

	if in.Category != nil {
		raw := strings.TrimSpace(*in.Category)
		if raw != "" || !creating {
			e.Category = Category(raw)
		}
	}

	return msgs
}
