// Package storage persists ledger state in a small key-value store.
//
// Every backend holds opaque string values under fixed keys; the typed
// stores in this package serialise the expense list and theme on top.
package storage

import "context"

const (
	KeyExpenses = "expenses"
	KeyTheme    = "theme"
)

// KV is the storage backend port.
type KV interface {
	// Get returns the value for key; ok is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
