package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/ledger_auditor/service"
)

// Validation failures of a ledger event
var (
	ErrMissingEventID     = errors.New("event id is required")
	ErrUnknownEventType   = errors.New("unknown event type")
	ErrMissingOccurredAt  = errors.New("occurred_at is required")
	ErrMissingAggregateID = errors.New("aggregate id is required")
	ErrMissingPayload     = errors.New("payload is required")
)

type EventValidatorImpl struct {
	auditRepo ledger.AuditRepository
	logger    *slog.Logger
}

func NewEventValidator(auditRepo ledger.AuditRepository, logger *slog.Logger) service.EventValidator {
	return &EventValidatorImpl{
		auditRepo: auditRepo,
		logger:    logger.With("component", "event_validator"),
	}
}

// Validate checks ledger event validity
func (v *EventValidatorImpl) Validate(ctx context.Context, event *shared.LedgerEvent) error {
	switch {
	case event.EventID == uuid.Nil:
		return ErrMissingEventID
	case !event.Type.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	case event.AggregateID == "":
		return ErrMissingAggregateID
	case event.OccurredAt.IsZero():
		return ErrMissingOccurredAt
	case len(event.Payload) == 0 || string(event.Payload) == "null":
		return ErrMissingPayload
	}
	return nil
}

// CheckIdempotency checks if the event was already recorded
func (v *EventValidatorImpl) CheckIdempotency(ctx context.Context, event *shared.LedgerEvent) (bool, error) {
	logger := v.logger
	if event.CorrelationID != "" {
		logger = v.logger.With("correlation_id", event.CorrelationID)
	}

	existing, err := v.auditRepo.GetByEventID(ctx, event.EventID)
	if err != nil && !errors.Is(err, ledger.ErrAuditEntryNotFound{}) {
		logger.Error("Failed to check audit log for idempotency", "event_id", event.EventID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for event %s: %w", event.EventID.String(), err)
	}

	if existing != nil {
		logger.Info("Ledger event already recorded (idempotency)", "event_id", event.EventID.String(), "recorded_at", existing.RecordedAt)
		return true, nil
	}

	return false, nil
}
