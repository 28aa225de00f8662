package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/ledger_auditor/service"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
)

// LedgerEventHandler handles ledger event messages from Kafka
type LedgerEventHandler struct {
	auditService service.AuditService
	producer     producers.DeadLetterPublisher
	logger       *slog.Logger
}

// NewLedgerEventHandler creates a new handler. producer may be nil.
func NewLedgerEventHandler(
	logger *slog.Logger,
	auditService service.AuditService,
	producer producers.DeadLetterPublisher,
) *LedgerEventHandler {
	return &LedgerEventHandler{
		auditService: auditService,
		producer:     producer,
		logger:       logger.With("component", "ledger_event_handler"),
	}
}

// HandleMessage decodes and records one ledger event
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.LedgerEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal ledger event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received ledger event",
		"event_id", event.EventID.String(),
		"type", string(event.Type),
		"aggregate_id", event.AggregateID,
	)

	if err := h.auditService.RecordEvent(ctx, &event); err != nil {
		logger.Error("Failed to record ledger event",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return fmt.Errorf("recording event %s failed: %w", event.EventID.String(), err)
	}

	return nil
}
