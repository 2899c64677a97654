package transaction

import (
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// Record is a transaction as persisted by the store, including processing metadata.
type Record struct {
	ID             string                   `json:"id"`
	Description    string                   `json:"description,omitempty"`
	Amount         float64                  `json:"amount"`
	Category       string                   `json:"category"`
	Mode           string                   `json:"mode"`
	Date           string                   `json:"date,omitempty"`
	SplitWith      []string                 `json:"split_with"`
	Note           string                   `json:"note,omitempty"`
	IdempotencyKey string                   `json:"idempotency_key,omitempty"`
	CorrelationID  string                   `json:"correlation_id,omitempty"`
	Status         shared.TransactionStatus `json:"status"`
	FailureReason  string                   `json:"failure_reason,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	ProcessedAt    *time.Time               `json:"processed_at,omitempty"`
}

// NewRecord builds a record from a save request in the given status.
func NewRecord(req *shared.SaveRequest, status shared.TransactionStatus) *Record {
	splitWith := req.SplitWith
	if splitWith == nil {
		splitWith = []string{}
	}
	return &Record{
		ID:             req.TransactionID,
		Description:    req.Description,
		Amount:         req.Amount,
		Category:       req.Category,
		Mode:           req.Mode,
		Date:           req.Date,
		SplitWith:      splitWith,
		Note:           req.Note,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  req.CorrelationID,
		Status:         status,
		CreatedAt:      req.Timestamp,
	}
}

// Raw exposes the stored fields under their persisted keys.
func (r *Record) Raw() Raw {
	return Submission{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Mode:        r.Mode,
		Date:        r.Date,
		SplitWith:   r.SplitWith,
		Note:        r.Note,
	}.Raw()
}
