package transaction

import (
	"context"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
)

// Repository persists transactions in the document store.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Record, error)
	// List returns every stored document that did not fail processing, in insertion order,
	// exactly as stored.
	List(ctx context.Context) ([]Raw, error)
	// ListRecent returns up to limit documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]Raw, error)
	UpdateStatus(ctx context.Context, id string, status shared.TransactionStatus, reason string) error
}

// ErrRecordNotFound indicates a missing transaction record
type ErrRecordNotFound struct {
	ID string
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.ID
}

// Is matches any ErrRecordNotFound when the target ID is empty, otherwise the same ID.
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateRecord indicates a record with the same ID already exists
type ErrDuplicateRecord struct {
	ID string
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transaction record: " + e.ID
}

func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
