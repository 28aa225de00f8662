// Package redis provides the Redis key-value backend of the wallet ledger
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/rueidis"
	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/platform/kvstore"
)

const scanBatch = 100

// KVStore implements kvstore.Store on a single Redis node
type KVStore struct {
	client rueidis.Client
	prefix string
	logger *slog.Logger
}

var _ kvstore.Store = (*KVStore)(nil)

// NewKVStore connects to cfg.Addr and verifies the server answers PING
func NewKVStore(logger *slog.Logger, cfg *config.RedisConfig, prefix string) (*KVStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:   []string{cfg.Addr},
		Username:      cfg.Username,
		Password:      cfg.Password,
		SelectDB:      cfg.DB,
		MaxFlushDelay: 100 * time.Microsecond,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	logger = logger.With("component", "redis_kv")
	logger.Info("connected to redis", "addr", cfg.Addr, "db", cfg.DB)

	return &KVStore{client: client, prefix: prefix, logger: logger}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.prefix+key).Build())
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, kvstore.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	data, err := resp.AsBytes()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: failed to read response: %w", key, err)
	}
	return data, nil
}

// Set stores value without expiry
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(s.prefix + key).Value(rueidis.BinaryString(value)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.prefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the store prefix using SCAN so the server is never blocked
func (s *KVStore) Clear(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(s.prefix + "*").Count(scanBatch).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}

		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return fmt.Errorf("redis clear: %w", err)
			}
			removed += len(entry.Elements)
		}

		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}

	s.logger.Info("cleared entries", "prefix", s.prefix, "count", removed)
	return nil
}

// Ping checks the connection
func (s *KVStore) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *KVStore) Name() string { return "redis" }

func (s *KVStore) Close() error {
	s.client.Close()
	return nil
}
