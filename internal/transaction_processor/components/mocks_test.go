package components

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fingenie-expense-tracker/internal/domain/outbox"
	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newSaveRequest() *shared.SaveRequest {
	return &shared.SaveRequest{
		TransactionID:  "65f1a2b3c4d5e6f708192a3b",
		Description:    "Cab to airport",
		Amount:         640.5,
		Category:       "transport",
		Mode:           "UPI",
		Date:           "2025-07-02",
		SplitWith:      []string{},
		IdempotencyKey: "key-7",
		CorrelationID:  "corr-7",
		Timestamp:      time.Date(2025, 7, 2, 8, 30, 0, 0, time.UTC),
	}
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

type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) Add(ctx context.Context, category string, amount decimal.Decimal) error {
	return m.Called(ctx, category, amount).Error(0)
}

func (m *MockSummaryRepo) List(ctx context.Context) ([]*summary.CategoryTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*summary.CategoryTotal), args.Error(1)
}

func (m *MockSummaryRepo) WithTx(tx pgx.Tx) summary.Repository {
	return m.Called(tx).Get(0).(summary.Repository)
}
