// Package postgres provides PostgreSQL implementations of the outbox and
// category projection repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/platform/persistence"
)

// SummaryRepository implements the summary.Repository interface for PostgreSQL
type SummaryRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

func NewSummaryRepository(logger *slog.Logger, querier persistence.Querier) summary.Repository {
	return &SummaryRepository{
		querier: querier,
		logger:  logger,
	}
}

func (r *SummaryRepository) WithTx(tx pgx.Tx) summary.Repository {
	return &SummaryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Add upserts the category row, bumping its count and total.
func (r *SummaryRepository) Add(ctx context.Context, category string, amount decimal.Decimal) error {
	query := `
		INSERT INTO category_totals (category, txn_count, total, updated_at)
		VALUES ($1, 1, $2, NOW())
		ON CONFLICT (category) DO UPDATE
		SET txn_count = category_totals.txn_count + 1,
		    total = category_totals.total + EXCLUDED.total,
		    updated_at = NOW()
	`

	if _, err := r.querier.Exec(ctx, query, category, amount); err != nil {
		r.logger.Error("Failed to add to category total", "category", category, "error", err)
		return fmt.Errorf("failed to add to category total: %w", err)
	}

	return nil
}

// List returns every category row, largest total first.
func (r *SummaryRepository) List(ctx context.Context) ([]*summary.CategoryTotal, error) {
	query := `
		SELECT category, txn_count, total, updated_at
		FROM category_totals
		ORDER BY total DESC, category ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list category totals", "error", err)
		return nil, fmt.Errorf("failed to list category totals: %w", err)
	}
	defer rows.Close()

	totals := []*summary.CategoryTotal{}
	for rows.Next() {
		var ct summary.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Count, &ct.Total, &ct.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan category total", "error", err)
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, &ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over category totals: %w", err)
	}

	return totals, nil
}
