package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"trackly/internal/core"
)

// ExpenseStore keeps the whole ledger as one JSON array under KeyExpenses.
type ExpenseStore struct {
	kv KV
}

func NewExpenseStore(kv KV) *ExpenseStore {
	return &ExpenseStore{kv: kv}
}

// Load returns nil when nothing was ever saved. A blob that does not parse
// is reported as a PersistenceError; callers fall back to an empty ledger.
func (s *ExpenseStore) Load(ctx context.Context) ([]core.Expense, error) {
	raw, ok, err := s.kv.Get(ctx, KeyExpenses)
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", Key: KeyExpenses, Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var expenses []core.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		return nil, &core.PersistenceError{Op: "load", Key: KeyExpenses, Err: fmt.Errorf("decode: %w", err)}
	}
	return expenses, nil
}

func (s *ExpenseStore) Save(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	b, err := json.Marshal(expenses)
	if err != nil {
		return &core.PersistenceError{Op: "save", Key: KeyExpenses, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := s.kv.Set(ctx, KeyExpenses, b); err != nil {
		return &core.PersistenceError{Op: "save", Key: KeyExpenses, Err: err}
	}
	return nil
}
