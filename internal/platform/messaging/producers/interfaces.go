package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/wallet-ledger/internal/domain/shared"
)

// MessagePublisher handles publishing messages to a primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}, headers ...kafka.Header) error
	Close() error
}

// EventPublisher publishes ledger events keyed by their aggregate
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *shared.LedgerEvent) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// topicAdmin is the subset of kafka.Conn used to provision topics
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ topicAdmin = (*kafka.Conn)(nil)
