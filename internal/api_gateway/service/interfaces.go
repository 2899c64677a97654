package service

import (
	"context"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
)

// ParseService turns a spoken transcript into a raw parse
type ParseService interface {
	// Parse returns the model's fields untouched. Returns ErrEmptyTranscript for a blank
	// transcript and an error wrapping ErrParseFailed when no parse could be produced.
	Parse(ctx context.Context, transcript string) (transaction.Raw, error)
}

// TransactionService defines the interface for transaction store operations
type TransactionService interface {
	// CreateTransaction normalizes raw, queues it for persistence and returns the
	// acknowledgement. When the idempotency key was already used the earlier transaction is
	// acknowledged instead, together with its record if it has been stored.
	CreateTransaction(ctx context.Context, raw transaction.Raw, idempotencyKey, correlationID string) (*transaction.Ack, *transaction.Record, error)

	// GetTransactionByID returns nil if the transaction is not found
	GetTransactionByID(ctx context.Context, id string) (*transaction.Record, error)

	// ListTransactions returns every stored record as it was stored
	ListTransactions(ctx context.Context) ([]transaction.Raw, error)
}

// HistoryService runs history queries over the stored records
type HistoryService interface {
	Query(ctx context.Context, params history.Params) (*HistoryView, error)
}

// StatsService builds the dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (summary.Dashboard, error)
}

// TranscriptParser is implemented by llm.GeminiParser
type TranscriptParser interface {
	ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error)
}

// ParseCache is implemented by cache.ParseCache
type ParseCache interface {
	Get(ctx context.Context, key string) (transaction.Raw, error)
	Set(ctx context.Context, key string, raw transaction.Raw) error
}

// IdempotencyStore is implemented by cache.IdempotencyStore
type IdempotencyStore interface {
	Reserve(ctx context.Context, key, transactionID string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

// IDGenerator issues identifiers
type IDGenerator interface {
	Generate() string
}
