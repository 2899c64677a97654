package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type MockParseService struct {
	mock.Mock
}

func (m *MockParseService) Parse(ctx context.Context, transcript string) (transaction.Raw, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Raw), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, raw transaction.Raw, idempotencyKey, correlationID string) (*transaction.Ack, *transaction.Record, error) {
	args := m.Called(ctx, raw, idempotencyKey, correlationID)
	var ack *transaction.Ack
	if args.Get(0) != nil {
		ack = args.Get(0).(*transaction.Ack)
	}
	var record *transaction.Record
	if args.Get(1) != nil {
		record = args.Get(1).(*transaction.Record)
	}
	return ack, record, args.Error(2)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, id string) (*transaction.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context) ([]transaction.Raw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Raw), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Query(ctx context.Context, params history.Params) (*service.HistoryView, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HistoryView), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context) (summary.Dashboard, error) {
	args := m.Called(ctx)
	return args.Get(0).(summary.Dashboard), args.Error(1)
}
