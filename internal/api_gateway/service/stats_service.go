package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

type StatsServiceImpl struct {
	totals      summary.Repository
	records     transaction.Repository
	normalizer  *normalizer.Normalizer
	recentLimit int
	logger      *slog.Logger
}

func NewStatsService(logger *slog.Logger, totals summary.Repository, records transaction.Repository, n *normalizer.Normalizer, recentLimit int) StatsService {
	if recentLimit <= 0 {
		recentLimit = history.DefaultRecentLimit
	}
	return &StatsServiceImpl{
		totals:      totals,
		records:     records,
		normalizer:  n,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// Dashboard reads the category projection and the newest stored records concurrently.
func (s *StatsServiceImpl) Dashboard(ctx context.Context) (summary.Dashboard, error) {
	var (
		totals []*summary.CategoryTotal
		recent []transaction.Raw
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.totals.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.records.ListRecent(gctx, s.recentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard", "error", err)
		return summary.Dashboard{}, err
	}

	return summary.Build(totals, s.normalizer.NormalizeAll(recent)), nil
}
