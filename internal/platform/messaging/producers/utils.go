package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/fingenie-expense-tracker/internal/config"
)

// topicProbeBudget bounds how long a topic's partitions are polled before creating it.
var topicProbeBudget = 10 * time.Second

func ensureTopic(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, topic string) error {
	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(ctx, conn, topic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return fmt.Errorf("failed to ensure topic %s exists: %w", topic, err)
	}
	return nil
}

// createKafkaTopicIfNotExists creates the topic unless its partitions can be read. Reads are
// retried with backoff since a freshly started broker may not answer at once.
func createKafkaTopicIfNotExists(ctx context.Context, admin topicAdmin, topicName string, numPartitions int, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition

	log.Info("Checking if Kafka topic exists", "topic", topicName)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = topicProbeBudget
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var readErr error
		partitions, readErr = admin.ReadPartitions(topicName)
		if readErr != nil {
			log.Warn("Failed to read partitions, retrying...", "topic", topicName, "attempt", attempt, "error", readErr)
		}
		return readErr
	}, backoff.WithContext(b, ctx))

	if len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topicName)
		return nil
	}

	log.Info("Kafka topic does not exist or is not accessible, attempting to create it", "topic", topicName, "last_error_read", err)
	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if topicConfig.NumPartitions == 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor == 0 {
		topicConfig.ReplicationFactor = 1
	}

	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}
	log.Info("Successfully created Kafka topic", "topic", topicName)
	return nil
}
