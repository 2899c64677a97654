package transaction

import (
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// Submission is the shape the transaction store accepts. It is the mirror image of the
// normalizer's import side: paymentMethod travels as mode, splitWith as split_with.
type Submission struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description,omitempty"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category"`
	Mode        string   `json:"mode"`
	Date        string   `json:"date,omitempty"`
	SplitWith   []string `json:"split_with"`
	Note        string   `json:"note,omitempty"`
}

// Raw exposes the submission under the store's keys, the same way a stored document
// would be read back.
func (s Submission) Raw() Raw {
	raw := Raw{
		"description": s.Description,
		"amount":      s.Amount,
		"category":    s.Category,
		"mode":        s.Mode,
		"date":        s.Date,
		"split_with":  append([]string{}, s.SplitWith...),
		"note":        s.Note,
	}
	if s.ID != "" {
		raw["id"] = s.ID
	}
	return raw
}

// ToSaveRequest wraps the submission into the message published for asynchronous persistence.
func (s Submission) ToSaveRequest(transactionID, idempotencyKey, correlationID string, at time.Time) *shared.SaveRequest {
	return &shared.SaveRequest{
		TransactionID:  transactionID,
		Description:    s.Description,
		Amount:         s.Amount,
		Category:       s.Category,
		Mode:           s.Mode,
		Date:           s.Date,
		SplitWith:      s.SplitWith,
		Note:           s.Note,
		IdempotencyKey: idempotencyKey,
		CorrelationID:  correlationID,
		Timestamp:      at,
	}
}

// Ack is the store's acknowledgement of a save.
type Ack struct {
	ID     string                   `json:"id"`
	Status shared.TransactionStatus `json:"status"`
}
