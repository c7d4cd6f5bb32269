package amqp

import (
	"encoding/json"
	"time"
)

// EventType names the kind of change an ExpenseEvent reports.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseUpdated EventType = "expense.updated"
	EventExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent announces that a record changed. It carries only the ID;
// consumers that need the record read it from the store.
type ExpenseEvent struct {
	Type       EventType `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	// Source identifies the publishing process so it can skip its own events.
	Source string `json:"source,omitempty"`
}

func NewExpenseEvent(t EventType, id string) *ExpenseEvent {
	return &ExpenseEvent{
		Type:       t,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
