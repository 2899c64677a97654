package handler

import (
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
	"github.com/fingenie-expense-tracker/internal/normalizer"
)

// IdempotencyKeyHeader carries the client's idempotency key on save requests
const IdempotencyKeyHeader = "Idempotency-Key"

// TranscriptRequest is the body of a parse request
type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// ParseResponse wraps the raw parse exactly as the model returned it
type ParseResponse struct {
	Parsed transaction.Raw `json:"parsed"`
}

// TransactionResponse is a stored transaction with its processing state
type TransactionResponse struct {
	Transaction   transaction.Transaction `json:"transaction"`
	Status        string                  `json:"status"`
	FailureReason string                  `json:"failure_reason,omitempty"`
	CreatedAt     string                  `json:"created_at,omitempty"`
	ProcessedAt   string                  `json:"processed_at,omitempty"`
}

// HistoryQueryRequest binds the history query string
type HistoryQueryRequest struct {
	Search        string `form:"search"`
	Category      string `form:"category"`
	PaymentMethod string `form:"payment_method"`
	Sort          string `form:"sort" binding:"omitempty,oneof=date amount description category paymentMethod"`
	Direction     string `form:"direction"`
}

func (r HistoryQueryRequest) toParams() history.Params {
	return history.Params{
		SearchTerm:    r.Search,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
		SortField:     r.Sort,
		SortDirection: history.SortDirection(r.Direction),
	}
}

func mapRecordToResponse(record *transaction.Record) TransactionResponse {
	response := TransactionResponse{
		Transaction:   normalizer.Normalize(record.Raw()),
		Status:        string(record.Status),
		FailureReason: record.FailureReason,
	}
	if !record.CreatedAt.IsZero() {
		response.CreatedAt = record.CreatedAt.Format(time.RFC3339)
	}
	if record.ProcessedAt != nil {
		response.ProcessedAt = record.ProcessedAt.Format(time.RFC3339)
	}
	return response
}
