package outbox

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// Repository manages transactional outbox message persistence
type Repository interface {
	// Create inserts the message. A second message for the same transaction is ignored
	// and reported as ErrDuplicateMessage.
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error
	IncrementAttempts(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Message, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound indicates missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

func (e ErrMessageNotFound) Is(target error) bool {
	t, ok := target.(ErrMessageNotFound)
	if !ok {
		return false
	}
	return t.ID == 0 || t.ID == e.ID
}

// ErrDuplicateMessage indicates transaction uniqueness violation
type ErrDuplicateMessage struct {
	TransactionID string
}

func (e ErrDuplicateMessage) Error() string {
	return "duplicate outbox message: " + e.TransactionID
}

func (e ErrDuplicateMessage) Is(target error) bool {
	t, ok := target.(ErrDuplicateMessage)
	if !ok {
		return false
	}
	return t.TransactionID == "" || t.TransactionID == e.TransactionID
}
