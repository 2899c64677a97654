package outbox

import (
	"encoding/json"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

// Message stores an accepted transaction until it has been published to the document store
type Message struct {
	ID            int64               `json:"id"`
	TransactionID string              `json:"transaction_id"`
	Category      string              `json:"category"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(record *transaction.Record) (*Message, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: record.ID,
		Category:      record.Category,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetRecord extracts the transaction record from the payload
func (m *Message) GetRecord() (*transaction.Record, error) {
	var record transaction.Record
	if err := json.Unmarshal(m.Payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
