package shared

import "time"

// SaveRequest is the Kafka message the API gateway publishes for every accepted save.
// Fields mirror transaction.Submission so the processor can rebuild it without
// importing the gateway's DTOs.
type SaveRequest struct {
	TransactionID  string    `json:"transaction_id"`
	Description    string    `json:"description,omitempty"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	Mode           string    `json:"mode"`
	Date           string    `json:"date,omitempty"`
	SplitWith      []string  `json:"split_with"`
	Note           string    `json:"note,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CorrelationID  string    `json:"correlation_id"`
	Timestamp      time.Time `json:"timestamp"`
}
