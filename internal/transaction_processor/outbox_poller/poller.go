package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

// Result labels for metrics.Metrics.OutboxPublished.
const (
	resultPublished = "published"
	resultFailed    = "failed"
	resultAbandoned = "abandoned"
)

// Poller moves pending outbox messages into the transaction store
type Poller struct {
	outboxRepo       outbox.Repository
	storePublisher   StorePublisher
	metrics          *metrics.Metrics
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	storePublisher StorePublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		storePublisher:   storePublisher,
		metrics:          m,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.publish(ctx, msg)
	}
	return nil
}

func (p *Poller) publish(ctx context.Context, msg *outbox.Message) {
	logger := p.logger.With("outbox_id", msg.ID, "transaction_id", msg.TransactionID)
	if record, err := msg.GetRecord(); err == nil && record.CorrelationID != "" {
		logger = logger.With("correlation_id", record.CorrelationID)
	}

	err := p.storePublisher.PublishToStore(ctx, msg)
	if err == nil {
		p.metrics.OutboxPublished.WithLabelValues(resultPublished).Inc()
		logger.Info("Published outbox message to store")
		return
	}

	logger.Error("Failed to publish outbox message to store", "current_attempts", msg.Attempts, "error", err)
	p.metrics.OutboxPublished.WithLabelValues(resultFailed).Inc()

	if err = p.outboxRepo.IncrementAttempts(ctx, msg.ID); err != nil {
		logger.Error("Failed to increment attempts for outbox message", "error", err)
		return
	}

	if msg.Attempts+1 >= p.maxRetryAttempts {
		logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH", "attempts_made", msg.Attempts+1)
		if err = p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
			logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "error", err)
			return
		}
		p.metrics.OutboxPublished.WithLabelValues(resultAbandoned).Inc()
	}
}
