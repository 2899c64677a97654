package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

type FailureRecorderImpl struct {
	records transaction.Repository
	logger  *slog.Logger
	now     func() time.Time
}

func NewFailureRecorder(records transaction.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		records: records,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordFailure stores the request as a FAILED record, or moves an existing record to FAILED.
// FAILED records are hidden from listings but still answer lookups by id.
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.SaveRequest, reason shared.FailureReason) error {
	logger := r.logger.With("transaction_id", request.TransactionID, "reason", reason)
	if request.CorrelationID != "" {
		logger = logger.With("correlation_id", request.CorrelationID)
	}

	existing, err := r.records.GetByID(ctx, request.TransactionID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		logger.Error("Failed to get existing record for failed save", "error", err)
		return err
	}

	if existing != nil {
		if existing.Status == shared.TransactionStatusFailed {
			logger.Info("Record already marked as FAILED")
			return nil
		}
		if err := r.records.UpdateStatus(ctx, request.TransactionID, shared.TransactionStatusFailed, string(reason)); err != nil {
			logger.Error("Failed to update record to FAILED", "error", err)
			return err
		}
		logger.Info("Updated existing record to FAILED")
		return nil
	}

	record := transaction.NewRecord(request, shared.TransactionStatusFailed)
	record.FailureReason = string(reason)
	processedAt := r.now().UTC()
	record.ProcessedAt = &processedAt

	if err := r.records.Create(ctx, record); err != nil {
		if errors.Is(err, transaction.ErrDuplicateRecord{}) {
			logger.Info("FAILED record written concurrently")
			return nil
		}
		logger.Error("Failed to create FAILED record", "error", err)
		return err
	}

	logger.Info("Created FAILED record")
	return nil
}
