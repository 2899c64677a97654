package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
	"github.com/fingenie-expense-tracker/internal/platform/persistence"
)

// Outcome labels for metrics.Metrics.ProcessedSaves.
const (
	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeDuplicate = "duplicate"
)

type ProcessingServiceImpl struct {
	db              persistence.TxBeginner
	retrier         *persistence.Retrier
	validator       SaveValidator
	outboxManager   OutboxManager
	summaryManager  SummaryManager
	failureRecorder FailureRecorder
	metrics         *metrics.Metrics
	logger          *slog.Logger
}

func NewProcessingService(
	db persistence.TxBeginner,
	retrier *persistence.Retrier,
	validator SaveValidator,
	outboxManager OutboxManager,
	summaryManager SummaryManager,
	failureRecorder FailureRecorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		db:              db,
		retrier:         retrier,
		validator:       validator,
		outboxManager:   outboxManager,
		summaryManager:  summaryManager,
		failureRecorder: failureRecorder,
		metrics:         m,
		logger:          logger,
	}
}

// ProcessSaveRequest validates the request, then queues it in the outbox and updates the
// category totals in one database transaction. Rejections and duplicates return nil so the
// Kafka message is committed; infrastructure errors are returned for redelivery.
func (s *ProcessingServiceImpl) ProcessSaveRequest(ctx context.Context, request *shared.SaveRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}
	logger = logger.With("transaction_id", request.TransactionID)

	logger.Info("Processing save request", "amount", request.Amount, "category", request.Category)

	if err := s.validator.Validate(ctx, request); err != nil {
		reason := failureReason(err)
		logger.Warn("Save request rejected", "reason", reason, "error", err)

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, reason); recordErr != nil {
			logger.Error("Failed to record rejected save", "error", recordErr)
			return fmt.Errorf("record failure for %s: %w", request.TransactionID, recordErr)
		}
		s.metrics.ProcessedSaves.WithLabelValues(outcomeRejected).Inc()
		return nil
	}

	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err
	}
	if skip {
		s.metrics.ProcessedSaves.WithLabelValues(outcomeDuplicate).Inc()
		return nil
	}

	err = s.retrier.Retry(ctx, func() error {
		return persistence.ExecuteTx(ctx, s.db, func(tx pgx.Tx) error {
			if err := s.outboxManager.CreateOutboxEntry(ctx, tx, request); err != nil {
				return err
			}
			return s.summaryManager.ApplyToTotals(ctx, tx, request)
		})
	})
	if errors.Is(err, outbox.ErrDuplicateMessage{}) {
		logger.Info("Save request already queued, skipping")
		s.metrics.ProcessedSaves.WithLabelValues(outcomeDuplicate).Inc()
		return nil
	}
	if err != nil {
		logger.Error("Failed to persist save request", "error", err)
		return fmt.Errorf("persist save request %s: %w", request.TransactionID, err)
	}

	s.metrics.ProcessedSaves.WithLabelValues(outcomeAccepted).Inc()
	s.metrics.TransactionTotal.Observe(request.Amount)
	logger.Info("Save request committed")
	return nil
}

func failureReason(err error) shared.FailureReason {
	switch {
	case errors.Is(err, shared.ErrInvalidAmount):
		return shared.FailureReasonInvalidAmount
	case errors.Is(err, shared.ErrInvalidDate):
		return shared.FailureReasonInvalidDate
	default:
		return shared.FailureReasonUnknownError
	}
}
