package components

import (
	"log/slog"

	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
	"github.com/fingenie-expense-tracker/internal/platform/persistence"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

// CreateProcessingService wires the processing components. The result runs on a worker
// pool when cfg.WorkerPool.Size is positive.
func CreateProcessingService(
	db persistence.TxBeginner,
	records transaction.Repository,
	outboxRepo outbox.Repository,
	summaryRepo summary.Repository,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	baseService := service.NewProcessingService(
		db,
		persistence.NewTxRetrier(logger),
		NewSaveValidator(records, logger),
		NewOutboxManager(outboxRepo, logger),
		NewSummaryManager(summaryRepo, logger),
		NewFailureRecorder(records, logger),
		m,
		logger,
	)

	if cfg.WorkerPool.Size <= 0 {
		logger.Warn("Worker pool disabled, processing inline", "pool_size", cfg.WorkerPool.Size)
		return baseService
	}

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
