package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// ErrTaskPanicked is returned when processing a request panicked inside a worker.
var ErrTaskPanicked = errors.New("save request processing panicked")

// WorkerPoolProcessingService runs the base service on a bounded ants pool. Callers block
// until their request has been processed.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessSaveRequest submits the request to the pool and waits for the result or ctx.
func (s *WorkerPoolProcessingService) ProcessSaveRequest(ctx context.Context, request *shared.SaveRequest) error {
	logger := s.logger.With("transaction_id", request.TransactionID)
	if request.CorrelationID != "" {
		logger = logger.With("correlation_id", request.CorrelationID)
	}

	resultChan := make(chan error, 1)
	requestCopy := *request

	err := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Worker panicked while processing save request", "panic", r)
				resultChan <- fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		resultChan <- s.baseService.ProcessSaveRequest(ctx, &requestCopy)
	})
	if err != nil {
		logger.Error("Failed to submit save request to worker pool", "error", err)
		return fmt.Errorf("submit to worker pool: %w", err)
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
