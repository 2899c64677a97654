package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// Message headers carried alongside every save request.
const (
	HeaderCorrelationID  = "correlation-id"
	HeaderIdempotencyKey = "idempotency-key"
)

type SaveRequestProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewSaveRequestProducer ensures the save topic exists and opens a synchronous writer, so a
// save is only acknowledged once the broker has it.
func NewSaveRequestProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SaveRequestProducer, error) {
	if cfg.SaveTopic == "" {
		return nil, fmt.Errorf("kafka save topic is not configured")
	}

	if err := ensureTopic(ctx, logger, cfg, cfg.SaveTopic); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SaveTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &SaveRequestProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SaveTopic,
	}, nil
}

// PublishSaveRequest keys the message by transaction id so retries of one save land on
// the same partition.
func (p *SaveRequestProducer) PublishSaveRequest(ctx context.Context, req *shared.SaveRequest) error {
	jsonValue, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal save request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(req.TransactionID),
		Value: jsonValue,
		Headers: []kafka.Header{
			{Key: HeaderCorrelationID, Value: []byte(req.CorrelationID)},
			{Key: HeaderIdempotencyKey, Value: []byte(req.IdempotencyKey)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish save request",
			"topic", p.topic,
			"transaction_id", req.TransactionID,
			"correlation_id", req.CorrelationID,
			"error", err,
		)
		return fmt.Errorf("failed to publish save request to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published save request",
		"topic", p.topic,
		"transaction_id", req.TransactionID,
		"correlation_id", req.CorrelationID,
	)
	return nil
}

func (p *SaveRequestProducer) Close() error {
	p.logger.Info("Closing save request producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
