package events

import (
	"encoding/json"
	"time"

	"spendvoice/internal/core"
)

const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is the wire format for expense lifecycle notifications.
// Created events carry the full aggregation-relevant fields; deleted events
// carry only the id.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseCreatedEvent(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        TypeExpenseCreated,
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Date:        e.Date.String(),
		Timestamp:   time.Now(),
	}
}

func NewExpenseDeletedEvent(id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      TypeExpenseDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (ev *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// ExpenseEventFromJSON decodes an event, for consumers of the queue.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
