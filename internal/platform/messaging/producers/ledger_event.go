package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/domain/shared"
)

// Header keys attached to every ledger event message
const (
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
)

// LedgerEventProducer writes ledger events to the ledger topic
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

var (
	_ MessagePublisher = (*LedgerEventProducer)(nil)
	_ EventPublisher   = (*LedgerEventProducer)(nil)
)

// NewLedgerEventProducer ensures the ledger topic exists and opens a synchronous writer.
// Writes block until acknowledged so that callers can route failures to the DLQ.
func NewLedgerEventProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.LedgerTopic == "" {
		return nil, fmt.Errorf("kafka ledger topic is not configured")
	}

	logger = logger.With("component", "ledger_event_producer")
	if err := dialAndEnsureTopic(cfg, cfg.LedgerTopic, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger topic %s exists: %w", cfg.LedgerTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LedgerTopic,
		Balancer:     &kafka.Hash{}, // events of one aggregate stay ordered on one partition
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LedgerTopic,
	}, nil
}

// PublishEvent writes event keyed by its aggregate id
func (p *LedgerEventProducer) PublishEvent(ctx context.Context, event *shared.LedgerEvent) error {
	headers := []kafka.Header{{Key: HeaderEventType, Value: []byte(event.Type)}}
	if event.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(event.CorrelationID)})
	}
	return p.Publish(ctx, event.AggregateID, event, headers...)
}

func (p *LedgerEventProducer) Publish(ctx context.Context, key string, value interface{}, headers ...kafka.Header) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   jsonValue,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
