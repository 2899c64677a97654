package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/normalizer"
	"github.com/fingenie-expense-tracker/internal/platform/messaging/producers"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
	"github.com/fingenie-expense-tracker/internal/reconciler"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	repo        transaction.Repository
	producer    producers.SaveRequestPublisher
	idempotency IdempotencyStore // nil falls back to the document store
	ids         IDGenerator
	keys        IDGenerator
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewTransactionService creates a new transaction service. ids issues transaction ids and
// keys issues idempotency keys for requests that arrive without one.
func NewTransactionService(
	logger *slog.Logger,
	repo transaction.Repository,
	producer producers.SaveRequestPublisher,
	idempotency IdempotencyStore,
	ids IDGenerator,
	keys IDGenerator,
	m *metrics.Metrics,
) TransactionService {
	return &TransactionServiceImpl{
		repo:        repo,
		producer:    producer,
		idempotency: idempotency,
		ids:         ids,
		keys:        keys,
		metrics:     m,
		logger:      logger,
	}
}

// CreateTransaction normalizes the body and converts it back to the submission shape, so
// legacy bodies are stored with the same keys as new ones.
func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, raw transaction.Raw, idempotencyKey, correlationID string) (*transaction.Ack, *transaction.Record, error) {
	if idempotencyKey == "" {
		idempotencyKey = s.keys.Generate()
	}
	logger := s.logger.With("correlation_id", correlationID, "idempotency_key", idempotencyKey)

	canonical := normalizer.Normalize(raw)
	canonical.ID = ""
	submission := reconciler.ToSubmission(canonical)

	transactionID := s.ids.Generate()
	reserved := false

	if s.idempotency != nil {
		existingID, ok, err := s.idempotency.Reserve(ctx, idempotencyKey, transactionID)
		switch {
		case err != nil:
			logger.Warn("Idempotency store unavailable, checking document store", "error", err)
		case !ok:
			return s.existing(ctx, logger, existingID)
		default:
			reserved = true
		}
	}

	if !reserved {
		existing, err := s.repo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			logger.Error("Failed to check for existing transaction with idempotency key", "error", err)
			s.metrics.SaveRequests.WithLabelValues("failed").Inc()
			return nil, nil, err
		}
		if existing != nil {
			logger.Info("Found existing transaction with idempotency key",
				"transaction_id", existing.ID,
				"status", string(existing.Status),
			)
			s.metrics.SaveRequests.WithLabelValues("duplicate").Inc()
			return &transaction.Ack{ID: existing.ID, Status: existing.Status}, existing, nil
		}
	}

	req := submission.ToSaveRequest(transactionID, idempotencyKey, correlationID, time.Now().UTC())
	if err := s.producer.PublishSaveRequest(ctx, req); err != nil {
		logger.Error("Failed to publish save request",
			"transaction_id", transactionID,
			"error", err,
		)
		if reserved {
			if relErr := s.idempotency.Release(ctx, idempotencyKey); relErr != nil {
				logger.Warn("Failed to release idempotency key", "error", relErr)
			}
		}
		s.metrics.SaveRequests.WithLabelValues("failed").Inc()
		return nil, nil, err
	}

	logger.Info("Save request published",
		"transaction_id", transactionID,
		"category", submission.Category,
		"amount", submission.Amount,
	)
	s.metrics.SaveRequests.WithLabelValues("accepted").Inc()

	return &transaction.Ack{ID: transactionID, Status: shared.TransactionStatusPending}, nil, nil
}

// existing acknowledges a transaction already issued for the same key. The record may not
// be stored yet, in which case it is still pending.
func (s *TransactionServiceImpl) existing(ctx context.Context, logger *slog.Logger, id string) (*transaction.Ack, *transaction.Record, error) {
	s.metrics.SaveRequests.WithLabelValues("duplicate").Inc()

	record, err := s.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		logger.Info("Idempotency key reused while transaction is pending", "transaction_id", id)
		return &transaction.Ack{ID: id, Status: shared.TransactionStatusPending}, nil, nil
	}

	logger.Info("Found existing transaction with idempotency key",
		"transaction_id", id,
		"status", string(record.Status),
	)
	return &transaction.Ack{ID: record.ID, Status: record.Status}, record, nil
}

// GetTransactionByID retrieves a transaction by its ID. Returns nil if not found
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, id string) (*transaction.Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, transaction.ErrRecordNotFound{}) {
			s.logger.Info("Transaction not found", "transaction_id", id)
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID", "transaction_id", id, "error", err)
		return nil, err
	}
	return record, nil
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context) ([]transaction.Raw, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list transactions", "error", err)
		return nil, err
	}
	return records, nil
}
