package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

const (
	testTxID = "65f1a2b3c4d5e6f708192a3b"
	testKey  = "01J1ABCDEFGHJKMNPQRSTVWXYZ"
)

type transactionServiceFixture struct {
	repo        *MockTransactionRepository
	producer    *MockSaveRequestPublisher
	idempotency *MockIdempotencyStore
}

func newTransactionService(f *transactionServiceFixture, withStore bool) (*TransactionServiceImpl, func() float64) {
	m := testMetrics()
	var store IdempotencyStore
	if withStore {
		store = f.idempotency
	}
	svc := NewTransactionService(testLogger(), f.repo, f.producer, store,
		fixedIDs{id: testTxID}, fixedIDs{id: "generated-key"}, m).(*TransactionServiceImpl)
	accepted := func() float64 { return testutil.ToFloat64(m.SaveRequests.WithLabelValues("accepted")) }
	return svc, accepted
}

func newFixture() *transactionServiceFixture {
	return &transactionServiceFixture{
		repo:        new(MockTransactionRepository),
		producer:    new(MockSaveRequestPublisher),
		idempotency: new(MockIdempotencyStore),
	}
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	legacy := transaction.Raw{
		"description":    "Dinner",
		"amount":         "900",
		"category":       "food",
		"payment_method": "google pay",
		"splitWith":      []any{"Rahul", "Sneha"},
	}

	t.Run("PublishesNormalizedSubmission", func(t *testing.T) {
		f := newFixture()
		svc, accepted := newTransactionService(f, true)

		f.idempotency.On("Reserve", ctx, testKey, testTxID).Return(testTxID, true, nil)
		f.producer.On("PublishSaveRequest", ctx, mock.MatchedBy(func(req *shared.SaveRequest) bool {
			return req.TransactionID == testTxID &&
				req.Amount == 900 &&
				req.Mode == "GPay" &&
				req.Description == "Dinner" &&
				assert.ObjectsAreEqual([]string{"Rahul", "Sneha"}, req.SplitWith) &&
				req.IdempotencyKey == testKey &&
				req.CorrelationID == "corr-1"
		})).Return(nil)

		ack, record, err := svc.CreateTransaction(ctx, legacy, testKey, "corr-1")

		require.NoError(t, err)
		assert.Nil(t, record)
		assert.Equal(t, &transaction.Ack{ID: testTxID, Status: shared.TransactionStatusPending}, ack)
		assert.Equal(t, float64(1), accepted())
		f.repo.AssertNotCalled(t, "GetByIdempotencyKey", mock.Anything, mock.Anything)
		f.producer.AssertExpectations(t)
	})

	t.Run("GeneratesKeyWhenMissing", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, true)

		f.idempotency.On("Reserve", ctx, "generated-key", testTxID).Return(testTxID, true, nil)
		f.producer.On("PublishSaveRequest", ctx, mock.MatchedBy(func(req *shared.SaveRequest) bool {
			return req.IdempotencyKey == "generated-key"
		})).Return(nil)

		_, _, err := svc.CreateTransaction(ctx, legacy, "", "")

		require.NoError(t, err)
		f.idempotency.AssertExpectations(t)
	})

	t.Run("ReusedKeyReturnsStoredRecord", func(t *testing.T) {
		f := newFixture()
		svc, accepted := newTransactionService(f, true)
		stored := &transaction.Record{ID: "earlier", Status: shared.TransactionStatusCompleted}

		f.idempotency.On("Reserve", ctx, testKey, testTxID).Return("earlier", false, nil)
		f.repo.On("GetByID", ctx, "earlier").Return(stored, nil)

		ack, record, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		require.NoError(t, err)
		assert.Equal(t, stored, record)
		assert.Equal(t, "earlier", ack.ID)
		assert.Equal(t, shared.TransactionStatusCompleted, ack.Status)
		assert.Equal(t, float64(0), accepted())
		f.producer.AssertNotCalled(t, "PublishSaveRequest", mock.Anything, mock.Anything)
	})

	t.Run("ReusedKeyWhilePending", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, true)

		f.idempotency.On("Reserve", ctx, testKey, testTxID).Return("earlier", false, nil)
		f.repo.On("GetByID", ctx, "earlier").Return(nil, transaction.ErrRecordNotFound{ID: "earlier"})

		ack, record, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		require.NoError(t, err)
		assert.Nil(t, record)
		assert.Equal(t, &transaction.Ack{ID: "earlier", Status: shared.TransactionStatusPending}, ack)
	})

	t.Run("StoreDownFallsBackToRepository", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, true)
		stored := &transaction.Record{ID: "earlier", Status: shared.TransactionStatusCompleted}

		f.idempotency.On("Reserve", ctx, testKey, testTxID).Return("", false, errors.New("redis down"))
		f.repo.On("GetByIdempotencyKey", ctx, testKey).Return(stored, nil)

		ack, record, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		require.NoError(t, err)
		assert.Equal(t, stored, record)
		assert.Equal(t, "earlier", ack.ID)
	})

	t.Run("NoStoreChecksRepository", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, false)

		f.repo.On("GetByIdempotencyKey", ctx, testKey).Return(nil, nil)
		f.producer.On("PublishSaveRequest", ctx, mock.Anything).Return(nil)

		ack, _, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		require.NoError(t, err)
		assert.Equal(t, testTxID, ack.ID)
		f.repo.AssertExpectations(t)
	})

	t.Run("PublishFailureReleasesKey", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, true)
		publishErr := errors.New("kafka unavailable")

		f.idempotency.On("Reserve", ctx, testKey, testTxID).Return(testTxID, true, nil)
		f.idempotency.On("Release", ctx, testKey).Return(nil)
		f.producer.On("PublishSaveRequest", ctx, mock.Anything).Return(publishErr)

		ack, _, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		assert.ErrorIs(t, err, publishErr)
		assert.Nil(t, ack)
		f.idempotency.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		f := newFixture()
		svc, _ := newTransactionService(f, false)
		dbErr := errors.New("mongo timeout")

		f.repo.On("GetByIdempotencyKey", ctx, testKey).Return(nil, dbErr)

		_, _, err := svc.CreateTransaction(ctx, legacy, testKey, "")

		assert.ErrorIs(t, err, dbErr)
		f.producer.AssertNotCalled(t, "PublishSaveRequest", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_GetTransactionByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		repoRecord *transaction.Record
		repoErr    error
		wantNil    bool
		wantErr    bool
	}{
		{name: "Found", repoRecord: &transaction.Record{ID: testTxID}},
		{name: "NotFound", repoErr: transaction.ErrRecordNotFound{ID: testTxID}, wantNil: true},
		{name: "RepositoryError", repoErr: errors.New("boom"), wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc, _ := newTransactionService(f, false)
			if tt.repoRecord != nil {
				f.repo.On("GetByID", ctx, testTxID).Return(tt.repoRecord, nil)
			} else {
				f.repo.On("GetByID", ctx, testTxID).Return(nil, tt.repoErr)
			}

			record, err := svc.GetTransactionByID(ctx, testTxID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, record)
			} else {
				assert.Equal(t, tt.repoRecord, record)
			}
		})
	}
}

func TestTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc, _ := newTransactionService(f, false)
	raws := []transaction.Raw{{"amount": 1.0}}

	f.repo.On("List", ctx).Return(raws, nil)

	got, err := svc.ListTransactions(ctx)

	require.NoError(t, err)
	assert.Equal(t, raws, got)
}
