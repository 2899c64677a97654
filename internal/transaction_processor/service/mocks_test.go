package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newSaveRequest() *shared.SaveRequest {
	return &shared.SaveRequest{
		TransactionID:  "65f1a2b3c4d5e6f708192a3b",
		Description:    "Dinner",
		Amount:         900,
		Category:       "food",
		Mode:           "GPay",
		Date:           "2025-07-01",
		SplitWith:      []string{"Rahul"},
		IdempotencyKey: "key-1",
		CorrelationID:  "corr-1",
		Timestamp:      time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
	}
}

type MockSaveValidator struct {
	mock.Mock
}

func (m *MockSaveValidator) Validate(ctx context.Context, request *shared.SaveRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *MockSaveValidator) CheckIdempotency(ctx context.Context, request *shared.SaveRequest) (bool, error) {
	args := m.Called(ctx, request)
	return args.Bool(0), args.Error(1)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error {
	return m.Called(ctx, tx, request).Error(0)
}

type MockSummaryManager struct {
	mock.Mock
}

func (m *MockSummaryManager) ApplyToTotals(ctx context.Context, tx pgx.Tx, request *shared.SaveRequest) error {
	return m.Called(ctx, tx, request).Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, request *shared.SaveRequest, reason shared.FailureReason) error {
	return m.Called(ctx, request, reason).Error(0)
}

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessSaveRequest(ctx context.Context, request *shared.SaveRequest) error {
	return m.Called(ctx, request).Error(0)
}
