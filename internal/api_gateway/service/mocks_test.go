package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]transaction.Raw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]transaction.Raw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id string, status shared.TransactionStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

type MockSaveRequestPublisher struct {
	mock.Mock
}

func (m *MockSaveRequestPublisher) PublishSaveRequest(ctx context.Context, req *shared.SaveRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSaveRequestPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key, transactionID string) (string, bool, error) {
	args := m.Called(ctx, key, transactionID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockTranscriptParser struct {
	mock.Mock
}

func (m *MockTranscriptParser) ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Raw), args.Error(1)
}

type MockParseCache struct {
	mock.Mock
}

func (m *MockParseCache) Get(ctx context.Context, key string) (transaction.Raw, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Raw), args.Error(1)
}

func (m *MockParseCache) Set(ctx context.Context, key string, raw transaction.Raw) error {
	args := m.Called(ctx, key, raw)
	return args.Error(0)
}

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Add(ctx context.Context, category string, amount decimal.Decimal) error {
	args := m.Called(ctx, category, amount)
	return args.Error(0)
}

func (m *MockSummaryRepository) List(ctx context.Context) ([]*summary.CategoryTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*summary.CategoryTotal), args.Error(1)
}

func (m *MockSummaryRepository) WithTx(tx pgx.Tx) summary.Repository {
	args := m.Called(tx)
	return args.Get(0).(summary.Repository)
}

type fixedIDs struct {
	id string
}

func (f fixedIDs) Generate() string { return f.id }
