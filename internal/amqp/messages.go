package amqp

import (
	"encoding/json"
	"time"

	"trackly/internal/core"
)

type EventType string

const (
	EventExpenseAdded   EventType = "expense.added"
	EventExpenseRemoved EventType = "expense.removed"
	EventLedgerExported EventType = "ledger.exported"
)

// LedgerEvent is a small notification published after a ledger change.
// Consumers that need the data re-read the ledger; the event only names it.
type LedgerEvent struct {
	Type      EventType `json:"type"`
	ExpenseID int64     `json:"expense_id,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Category  string    `json:"category,omitempty"`
	Format    string    `json:"format,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAdded builds the event for a newly recorded expense.
func NewExpenseAdded(e core.Expense, count int) LedgerEvent {
	return LedgerEvent{
		Type:      EventExpenseAdded,
		ExpenseID: e.ID,
		Amount:    e.Amount.String(),
		Category:  string(e.Category),
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func NewExpenseRemoved(id int64, count int) LedgerEvent {
	return LedgerEvent{
		Type:      EventExpenseRemoved,
		ExpenseID: id,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func NewLedgerExported(format string, count int) LedgerEvent {
	return LedgerEvent{
		Type:      EventLedgerExported,
		Format:    format,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event published by this package.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return LedgerEvent{}, err
	}
	return ev, nil
}
