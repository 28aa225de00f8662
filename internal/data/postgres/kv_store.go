// Package postgres provides the PostgreSQL key-value backend of the wallet ledger.
// Values live in the kv_entries table as JSONB documents keyed by prefixed strings.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/platform/persistence"
)

// KVStore implements kvstore.Store on PostgreSQL
type KVStore struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	prefix  string
	logger  *slog.Logger
}

var _ kvstore.Store = (*KVStore)(nil)

// NewKVStore creates a store over db's pool. Every key is stored under prefix.
func NewKVStore(logger *slog.Logger, db *persistence.PostgresDB, prefix string) *KVStore {
	return &KVStore{
		querier: db.Pool(),
		prefix:  prefix,
		logger:  logger.With("component", "postgres_kv"),
	}
}

// WithTx returns a store running its statements inside tx
func (s *KVStore) WithTx(tx pgx.Tx) *KVStore {
	return &KVStore{
		querier: tx,
		prefix:  s.prefix,
		logger:  s.logger,
	}
}

// Get returns the JSON document stored at key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM kv_entries
		WHERE key = $1
	`

	var value []byte
	if err := s.querier.QueryRow(ctx, query, s.prefix+key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kvstore.ErrKeyNotFound
		}
		s.logger.Error("failed to get entry", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get entry %s: %w", key, err)
	}

	return value, nil
}

// Set upserts the JSON document at key
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.querier.Exec(ctx, query, s.prefix+key, value); err != nil {
		s.logger.Error("failed to set entry", "key", key, "error", err)
		return fmt.Errorf("failed to set entry %s: %w", key, err)
	}

	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	query := `
		DELETE FROM kv_entries
		WHERE key = $1
	`

	if _, err := s.querier.Exec(ctx, query, s.prefix+key); err != nil {
		s.logger.Error("failed to remove entry", "key", key, "error", err)
		return fmt.Errorf("failed to remove entry %s: %w", key, err)
	}

	return nil
}

// Clear deletes every entry under the store prefix
func (s *KVStore) Clear(ctx context.Context) error {
	query := `
		DELETE FROM kv_entries
		WHERE starts_with(key, $1)
	`

	tag, err := s.querier.Exec(ctx, query, s.prefix)
	if err != nil {
		s.logger.Error("failed to clear entries", "prefix", s.prefix, "error", err)
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	s.logger.Info("cleared entries", "prefix", s.prefix, "count", tag.RowsAffected())
	return nil
}

func (s *KVStore) Name() string { return "postgres" }

// Close is a no-op; the pool is owned by persistence.PostgresDB
func (s *KVStore) Close() error { return nil }
