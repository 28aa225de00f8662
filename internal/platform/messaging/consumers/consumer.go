package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
)

const fetchRetryDelay = time.Second

type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	// Run consumes until ctx is cancelled
	Run(ctx context.Context, handler MessageHandler) error
	Close() error
}

// KafkaReader wraps kafka.Reader methods for testing
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ KafkaReader = (*kafka.Reader)(nil)

// KafkaConsumer implements Consumer using a Kafka reader group.
// A message whose handler fails is sent to the DLQ and committed so the partition keeps moving.
type KafkaConsumer struct {
	reader KafkaReader
	dlq    producers.DeadLetterPublisher
	topic  string
	group  string
	logger *slog.Logger
}

var _ Consumer = (*KafkaConsumer)(nil)

// NewKafkaConsumer reads cfg.LedgerTopic as cfg.ConsumerGroup. dlq may be nil.
func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig, dlq producers.DeadLetterPublisher) *KafkaConsumer {
	startOffset := cfg.StartOffset
	if startOffset == 0 {
		startOffset = kafka.FirstOffset
	}

	return &KafkaConsumer{
		logger: logger.With("component", "kafka_consumer"),
		dlq:    dlq,
		topic:  cfg.LedgerTopic,
		group:  cfg.ConsumerGroup,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.LedgerTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: startOffset,
		}),
	}
}

// Run fetches, handles and commits messages until ctx is cancelled
func (c *KafkaConsumer) Run(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic", "topic", c.topic, "group_id", c.group)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer", "topic", c.topic, "group_id", c.group)
				return nil
			}
			c.logger.Error("Failed to fetch message from Kafka", "topic", c.topic, "group_id", c.group, "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		c.logger.Debug("Received message from Kafka",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)

		if processingErr := handler(ctx, msg.Key, msg.Value); processingErr != nil {
			if ctx.Err() != nil {
				// shutting down, leave the offset for the next member of the group
				return nil
			}
			c.logger.Error("Failed to process message, routing to DLQ",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
				"error", processingErr,
			)
			if !c.deadLetter(ctx, msg, processingErr) {
				continue
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

// deadLetter reports whether the failed message may be committed
func (c *KafkaConsumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) bool {
	if c.dlq == nil {
		return true
	}
	err := c.dlq.PublishToDLQ(ctx, string(msg.Key), msg.Value, cause.Error())
	if err == nil || errors.Is(err, producers.ErrDLQDisabled) {
		return true
	}
	c.logger.Error("Failed to publish message to DLQ, offset left uncommitted",
		"offset", msg.Offset,
		"error", err,
	)
	return false
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
