package service

import (
	"context"
	"log/slog"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
	"github.com/fingenie-expense-tracker/internal/normalizer"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

// HistoryView is one page of history: the query result plus the filter values available
// over the whole collection.
type HistoryView struct {
	Rows           []transaction.Transaction `json:"rows"`
	Total          float64                   `json:"total"`
	Count          int                       `json:"count"`
	Categories     []string                  `json:"categories"`
	PaymentMethods []string                  `json:"payment_methods"`
}

type HistoryServiceImpl struct {
	repo       transaction.Repository
	normalizer *normalizer.Normalizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewHistoryService(logger *slog.Logger, repo transaction.Repository, n *normalizer.Normalizer, m *metrics.Metrics) HistoryService {
	return &HistoryServiceImpl{
		repo:       repo,
		normalizer: n,
		metrics:    m,
		logger:     logger,
	}
}

// Query reads every stored record, normalizes it and runs the query engine over the result.
func (s *HistoryServiceImpl) Query(ctx context.Context, params history.Params) (*HistoryView, error) {
	raws, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load history", "error", err)
		return nil, err
	}

	records := s.normalizer.NormalizeAll(raws)
	facets := history.CollectFacets(records)
	result := history.Query(records, params)

	kind := "unfiltered"
	if params.SearchTerm != "" || params.Category != "" || params.PaymentMethod != "" {
		kind = "filtered"
	}
	s.metrics.HistoryQueries.WithLabelValues(kind).Inc()

	return &HistoryView{
		Rows:           result.Rows,
		Total:          result.Total,
		Count:          len(result.Rows),
		Categories:     facets.Categories,
		PaymentMethods: facets.PaymentMethods,
	}, nil
}
