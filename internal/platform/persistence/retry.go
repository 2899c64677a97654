package persistence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

// connectBudget bounds how long startup waits for a store to accept connections.
const connectBudget = 30 * time.Second

// PostgreSQL error codes that are safe to retry.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// Retrier re-runs an operation with exponential backoff while its error is retryable.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	retryable       func(error) bool
	logger          *slog.Logger
}

// NewTxRetrier retries deadlocks and serialization failures of a database transaction.
func NewTxRetrier(logger *slog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     time.Second,
		maxElapsedTime:  10 * time.Second,
		retryable:       isRetryableTxError,
		logger:          logger,
	}
}

// NewConnectRetrier retries any error, for dependencies that may still be starting up.
func NewConnectRetrier(logger *slog.Logger, maxElapsed time.Duration) *Retrier {
	return &Retrier{
		maxRetries:      20,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
		maxElapsedTime:  maxElapsed,
		retryable:       func(error) bool { return true },
		logger:          logger,
	}
}

// Retry executes operation until it succeeds, fails permanently or the budget runs out.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !r.retryable(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn("retryable error, retrying", "error", err, "retry", retryCount)

		return err
	}, backoff.WithContext(b, ctx))
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return true
		}
	}
	return false
}
