package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/metrics"
)

type AuditServiceImpl struct {
	auditRepo       ledger.AuditRepository
	validator       EventValidator
	failureRecorder FailureRecorder
	metrics         metrics.Collector
	logger          *slog.Logger
}

// NewAuditService creates the audit service. A nil collector disables metrics.
func NewAuditService(
	auditRepo ledger.AuditRepository,
	validator EventValidator,
	failureRecorder FailureRecorder,
	collector metrics.Collector,
	logger *slog.Logger,
) AuditService {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &AuditServiceImpl{
		auditRepo:       auditRepo,
		validator:       validator,
		failureRecorder: failureRecorder,
		metrics:         collector,
		logger:          logger.With("component", "audit_service"),
	}
}

// RecordEvent handles the core logic for auditing a ledger event.
func (s *AuditServiceImpl) RecordEvent(ctx context.Context, event *shared.LedgerEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}
	eventType := string(event.Type)

	logger.Info("Recording ledger event", "event_id", event.EventID.String(), "type", eventType, "aggregate_id", event.AggregateID)

	// 1. Validate the event
	if err := s.validator.Validate(ctx, event); err != nil {
		logger.Error("Ledger event validation failed", "event_id", event.EventID.String(), "error", err)
		s.metrics.RecordAuditEvent(eventType, metrics.OutcomeInvalid)

		if recordErr := s.failureRecorder.RecordFailure(ctx, event, err.Error()); recordErr != nil {
			logger.Error("Failed to record invalid event", "event_id", event.EventID.String(), "error", recordErr)
		}
		return nil // acknowledge, redelivery cannot fix it
	}

	// 2. Check idempotency
	seen, err := s.validator.CheckIdempotency(ctx, event)
	if err != nil {
		s.metrics.RecordAuditEvent(eventType, metrics.OutcomeFailure)
		return err
	}
	if seen {
		s.metrics.RecordAuditEvent(eventType, metrics.OutcomeDuplicate)
		return nil
	}

	// 3. Store the entry; a concurrent delivery may have won the unique index
	if err := s.auditRepo.Create(ctx, ledger.NewAuditEntry(event)); err != nil {
		if errors.Is(err, ledger.ErrDuplicateAuditEntry{}) {
			logger.Info("Ledger event recorded concurrently (idempotency)", "event_id", event.EventID.String())
			s.metrics.RecordAuditEvent(eventType, metrics.OutcomeDuplicate)
			return nil
		}
		s.metrics.RecordAuditEvent(eventType, metrics.OutcomeFailure)
		return fmt.Errorf("failed to record event %s: %w", event.EventID.String(), err)
	}

	s.metrics.RecordAuditEvent(eventType, metrics.OutcomeSuccess)
	logger.Info("Ledger event recorded", "event_id", event.EventID.String(), "type", eventType)
	return nil
}
