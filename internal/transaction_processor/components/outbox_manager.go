package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stores the request as a PENDING record payload. The poller sets
// COMPLETED and ProcessedAt when it writes the record to the store.
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	record := transaction.NewRecord(request, shared.TransactionStatusPending)
	message, err := outbox.NewMessage(record)
	if err != nil {
		return fmt.Errorf("failed to create outbox message payload for tx %s: %w", request.TransactionID, err)
	}

	if err := m.outboxRepo.WithTx(tx).Create(ctx, message); err != nil {
		logger.Warn("Failed to create outbox message", "transaction_id", request.TransactionID, "error", err)
		return fmt.Errorf("failed to create outbox message for tx %s: %w", request.TransactionID, err)
	}

	logger.Info("Outbox message created", "transaction_id", request.TransactionID, "outbox_id", message.ID)
	return nil
}
