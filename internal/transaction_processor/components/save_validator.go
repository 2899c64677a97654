package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

const dateLayout = "2006-01-02"

type SaveValidatorImpl struct {
	records transaction.Repository
	logger  *slog.Logger
}

func NewSaveValidator(records transaction.Repository, logger *slog.Logger) service.SaveValidator {
	return &SaveValidatorImpl{
		records: records,
		logger:  logger,
	}
}

// Validate requires a finite, non-negative amount and a date that is empty or YYYY-MM-DD.
// Zero is accepted: it is what an unparsable amount normalizes to.
func (v *SaveValidatorImpl) Validate(_ context.Context, request *shared.SaveRequest) error {
	if math.IsNaN(request.Amount) || math.IsInf(request.Amount, 0) || request.Amount < 0 {
		return fmt.Errorf("%w: %v", shared.ErrInvalidAmount, request.Amount)
	}

	if request.Date != "" {
		if _, err := time.Parse(dateLayout, request.Date); err != nil {
			return fmt.Errorf("%w: %q", shared.ErrInvalidDate, request.Date)
		}
	}

	return nil
}

// CheckIdempotency looks the transaction up in the document store. A COMPLETED or FAILED
// record means the request was handled before.
func (v *SaveValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.SaveRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existing, err := v.records.GetByID(ctx, request.TransactionID)
	if errors.Is(err, transaction.ErrRecordNotFound{}) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check store for idempotency", "transaction_id", request.TransactionID, "error", err)
		return false, fmt.Errorf("idempotency check failed for transaction %s: %w", request.TransactionID, err)
	}

	switch existing.Status {
	case shared.TransactionStatusCompleted, shared.TransactionStatusFailed:
		logger.Info("Transaction already processed (idempotency)", "transaction_id", request.TransactionID, "status", existing.Status)
		return true, nil
	default:
		logger.Info("Transaction found with non-terminal status, proceeding", "transaction_id", request.TransactionID, "status", existing.Status)
		return false, nil
	}
}
