package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/wallet-ledger/internal/domain/shared"
)

// WorkerPoolAuditService implements the AuditService interface on a bounded pool
type WorkerPoolAuditService struct {
	baseService AuditService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

// ErrInvalidPoolSize is returned for a non-positive pool size; ants would treat it as unbounded
var ErrInvalidPoolSize = errors.New("worker pool size must be greater than 0")

func NewWorkerPoolAuditService(
	baseService AuditService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolAuditService, error) {
	if config.Size <= 0 {
		return nil, ErrInvalidPoolSize
	}

	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolAuditService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// RecordEvent submits an event to the worker pool and waits for its result.
func (s *WorkerPoolAuditService) RecordEvent(ctx context.Context, event *shared.LedgerEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Debug("Submitting ledger event to worker pool",
		"event_id", event.EventID.String(),
		"type", string(event.Type),
	)

	resultChan := make(chan error, 1)

	// Create a copy of the event to avoid data races
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.RecordEvent(ctx, &eventCopy)
	})
	if err != nil {
		logger.Error("Failed to submit ledger event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolAuditService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolAuditService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolAuditService) Capacity() int {
	return s.pool.Cap()
}
