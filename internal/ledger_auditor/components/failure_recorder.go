package components

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/ledger_auditor/service"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
)

// FailureRecorderImpl parks events that failed validation on the dead letter topic
type FailureRecorderImpl struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

// NewFailureRecorder creates a recorder; a nil dlq only logs the failure
func NewFailureRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		dlq:    dlq,
		logger: logger.With("component", "failure_recorder"),
	}
}

// RecordFailure publishes the rejected event with the reason it was rejected
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, event *shared.LedgerEvent, failureReason string) error {
	logger := r.logger
	if event.CorrelationID != "" {
		logger = r.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Warn("Recording rejected ledger event", "event_id", event.EventID.String(), "type", string(event.Type), "reason", failureReason)

	if r.dlq == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rejected event %s: %w", event.EventID.String(), err)
	}

	if err := r.dlq.PublishToDLQ(ctx, event.AggregateID, value, "invalid ledger event: "+failureReason); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			return nil
		}
		logger.Error("Failed to publish rejected event to DLQ", "event_id", event.EventID.String(), "error", err)
		return err
	}

	logger.Info("Rejected ledger event published to DLQ", "event_id", event.EventID.String())
	return nil
}
