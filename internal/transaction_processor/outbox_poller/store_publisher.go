package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// StorePublisher writes outbox messages to the transaction store
type StorePublisher interface {
	PublishToStore(ctx context.Context, message *outbox.Message) error
}

// StorePublisherImpl implements StorePublisher
type StorePublisherImpl struct {
	outboxRepo outbox.Repository
	records    transaction.Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewStorePublisher creates a new publisher
func NewStorePublisher(
	outboxRepo outbox.Repository,
	records transaction.Repository,
	logger *slog.Logger,
) StorePublisher {
	return &StorePublisherImpl{
		outboxRepo: outboxRepo,
		records:    records,
		logger:     logger,
		now:        time.Now,
	}
}

// PublishToStore inserts the message's record as COMPLETED and marks the message PROCESSED.
// A record that is already stored is completed in place, so republishing is safe.
func (p *StorePublisherImpl) PublishToStore(ctx context.Context, message *outbox.Message) error {
	record, err := message.GetRecord()
	if err != nil {
		p.logger.Error("Failed to unmarshal record from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger.With("outbox_id", message.ID, "transaction_id", record.ID)
	if record.CorrelationID != "" {
		logger = logger.With("correlation_id", record.CorrelationID)
	}

	record.Status = shared.TransactionStatusCompleted
	processedAt := p.now().UTC()
	record.ProcessedAt = &processedAt

	err = p.records.Create(ctx, record)
	switch {
	case errors.Is(err, transaction.ErrDuplicateRecord{}):
		if err := p.completeExisting(ctx, record.ID); err != nil {
			logger.Error("Failed to complete existing record", "error", err)
			return err
		}
	case err != nil:
		logger.Error("Failed to create record in MongoDB", "error", err)
		return fmt.Errorf("failed to create record %s: %w", record.ID, err)
	default:
		logger.Info("Created record in MongoDB")
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED", "error", err)
		return fmt.Errorf("store write for %s OK, but failed to mark outbox %d as PROCESSED: %w", record.ID, message.ID, err)
	}

	return nil
}

func (p *StorePublisherImpl) completeExisting(ctx context.Context, id string) error {
	existing, err := p.records.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check existing record %s: %w", id, err)
	}
	if existing.Status == shared.TransactionStatusCompleted {
		return nil
	}
	if err := p.records.UpdateStatus(ctx, id, shared.TransactionStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update record %s to COMPLETED: %w", id, err)
	}
	return nil
}
