package outbox_poller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newMessage(t *testing.T, id int64, attempts int) *outbox.Message {
	t.Helper()
	record := &transaction.Record{
		ID:            "65f1a2b3c4d5e6f708192a3b",
		Description:   "Movie night",
		Amount:        450,
		Category:      "entertainment",
		Mode:          "Card",
		Date:          "2025-07-04",
		SplitWith:     []string{"Asha", "Vikram"},
		CorrelationID: "corr-11",
		Status:        shared.TransactionStatusPending,
		CreatedAt:     time.Date(2025, 7, 4, 21, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	return &outbox.Message{
		ID:            id,
		TransactionID: record.ID,
		Category:      record.Category,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		Attempts:      attempts,
	}
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) GetByTransactionID(ctx context.Context, transactionID string) (*outbox.Message, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m.Called(tx).Get(0).(outbox.Repository)
}

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) Create(ctx context.Context, record *transaction.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepo) GetByID(ctx context.Context, id string) (*transaction.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockRecordRepo) GetByIdempotencyKey(ctx context.Context, key string) (*transaction.Record, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockRecordRepo) List(ctx context.Context) ([]transaction.Raw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

func (m *MockRecordRepo) ListRecent(ctx context.Context, limit int) ([]transaction.Raw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

func (m *MockRecordRepo) UpdateStatus(ctx context.Context, id string, status shared.TransactionStatus, reason string) error {
	return m.Called(ctx, id, status, reason).Error(0)
}

type MockStorePublisher struct {
	mock.Mock
}

func (m *MockStorePublisher) PublishToStore(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}
