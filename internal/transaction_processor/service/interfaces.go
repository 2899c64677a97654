package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// ProcessingService makes an accepted save request durable.
type ProcessingService interface {
	ProcessSaveRequest(ctx context.Context, request *shared.SaveRequest) error
}

// SaveValidator validates save requests before processing
type SaveValidator interface {
	Validate(ctx context.Context, request *shared.SaveRequest) error
	// CheckIdempotency reports true when the transaction already reached a terminal status.
	CheckIdempotency(ctx context.Context, request *shared.SaveRequest) (bool, error)
}

// OutboxManager queues a validated save for publication to the document store
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error
}

// SummaryManager keeps the per-category totals in step with accepted saves
type SummaryManager interface {
	ApplyToTotals(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error
}

// FailureRecorder stores rejected saves as FAILED records
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.SaveRequest, reason shared.FailureReason) error
}
