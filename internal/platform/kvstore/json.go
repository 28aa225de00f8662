package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wallet-ledger/internal/domain/shared"
)

// GetJSON decodes the value at key into T.
// A missing key yields fallback with a nil error. A backend failure or an undecodable
// value yields fallback with a storage error.
func GetJSON[T any](ctx context.Context, store Store, key string, fallback T) (T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return fallback, nil
		}
		return fallback, shared.NewStorageError("get", key, err)
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback, shared.NewStorageError("decode", key, err)
	}
	return value, nil
}

// Lookup is GetJSON reporting whether the key was present
func Lookup[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var zero T
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return zero, false, nil
		}
		return zero, false, shared.NewStorageError("get", key, err)
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false, shared.NewStorageError("decode", key, err)
	}
	return value, true, nil
}

// SetJSON encodes value and stores it at key
func SetJSON(ctx context.Context, store Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return shared.NewStorageError("encode", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return shared.NewStorageError("set", key, err)
	}
	return nil
}

// Remove deletes key, wrapping backend failures as storage errors
func Remove(ctx context.Context, store Store, key string) error {
	if err := store.Remove(ctx, key); err != nil {
		return shared.NewStorageError("remove", key, err)
	}
	return nil
}

// Clear wipes the store, wrapping backend failures as storage errors
func Clear(ctx context.Context, store Store) error {
	if err := store.Clear(ctx); err != nil {
		return shared.NewStorageError("clear", "", err)
	}
	return nil
}
