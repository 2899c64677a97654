package producers

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// SaveRequestPublisher hands accepted saves to the transaction processor
type SaveRequestPublisher interface {
	PublishSaveRequest(ctx context.Context, req *shared.SaveRequest) error
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

// topicAdmin is the part of kafka.Conn used to ensure topics exist
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}
