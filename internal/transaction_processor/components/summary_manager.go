package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

type SummaryManagerImpl struct {
	summaryRepo summary.Repository
	logger      *slog.Logger
}

func NewSummaryManager(summaryRepo summary.Repository, logger *slog.Logger) service.SummaryManager {
	return &SummaryManagerImpl{
		summaryRepo: summaryRepo,
		logger:      logger,
	}
}

// ApplyToTotals adds the request's amount to its category row inside tx.
func (m *SummaryManagerImpl) ApplyToTotals(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error {
	amount := decimal.NewFromFloat(request.Amount)
	if err := m.summaryRepo.WithTx(tx).Add(ctx, request.Category, amount); err != nil {
		return fmt.Errorf("failed to update totals for category %q: %w", request.Category, err)
	}

	m.logger.Debug("Category totals updated",
		"transaction_id", request.TransactionID,
		"category", request.Category,
		"amount", amount.String(),
	)
	return nil
}
