// Package kvstore is the durable key-value store behind the ledger's persisted overlay.
// Values are JSON documents addressed by string keys.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get for a key that was never written or was removed
	ErrKeyNotFound = errors.New("kvstore: key not found")
	// ErrCircuitOpen is returned while the backend circuit breaker rejects calls
	ErrCircuitOpen = errors.New("kvstore: circuit breaker open")
	// ErrTimeout is returned when a call exceeds the configured operation timeout
	ErrTimeout = errors.New("kvstore: operation timeout")
)

// Store is a key-value backend holding raw JSON documents
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Clear removes every key owned by the store
	Clear(ctx context.Context) error
	Name() string
	Close() error
}

// Persisted key namespaces
const (
	KeyTransfers          = "transfers"
	KeyContacts           = "contacts"
	KeyAccount            = "account"
	KeyCards              = "cards"
	KeyMoneyRequests      = "money_requests"
	KeyScheduledTransfers = "scheduled_transfers"
	KeyUserPreferences    = "user_preferences"
)
