package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/platform/cache"
)

func TestParseService_Parse(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	transcript := "I paid 900 for dinner via GPay"
	key := cache.Key(day, transcript)
	parsed := transaction.Raw{"amount": 900.0, "mode": "GPay"}

	newService := func(parser *MockTranscriptParser, pc ParseCache) (*ParseServiceImpl, *MockTranscriptParser) {
		svc := NewParseService(testLogger(), parser, pc, testMetrics()).(*ParseServiceImpl)
		svc.now = func() time.Time { return day }
		return svc, parser
	}

	t.Run("CacheHit", func(t *testing.T) {
		pc := new(MockParseCache)
		svc, parser := newService(new(MockTranscriptParser), pc)
		pc.On("Get", ctx, key).Return(parsed, nil)

		raw, err := svc.Parse(ctx, transcript)

		require.NoError(t, err)
		assert.Equal(t, parsed, raw)
		assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.ParseCacheHits))
		parser.AssertNotCalled(t, "ParseTranscript", mock.Anything, mock.Anything)
	})

	t.Run("CacheMissStoresParse", func(t *testing.T) {
		pc := new(MockParseCache)
		svc, parser := newService(new(MockTranscriptParser), pc)
		pc.On("Get", ctx, key).Return(nil, cache.ErrCacheMiss)
		pc.On("Set", ctx, key, parsed).Return(nil)
		parser.On("ParseTranscript", ctx, transcript).Return(parsed, nil)

		raw, err := svc.Parse(ctx, "  "+transcript+"  ")

		require.NoError(t, err)
		assert.Equal(t, parsed, raw)
		assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.ParseCacheMisses))
		pc.AssertExpectations(t)
	})

	t.Run("CacheErrorsAreIgnored", func(t *testing.T) {
		pc := new(MockParseCache)
		svc, parser := newService(new(MockTranscriptParser), pc)
		pc.On("Get", ctx, key).Return(nil, errors.New("redis down"))
		pc.On("Set", ctx, key, parsed).Return(errors.New("redis down"))
		parser.On("ParseTranscript", ctx, transcript).Return(parsed, nil)

		raw, err := svc.Parse(ctx, transcript)

		require.NoError(t, err)
		assert.Equal(t, parsed, raw)
	})

	t.Run("WithoutCache", func(t *testing.T) {
		svc, parser := newService(new(MockTranscriptParser), nil)
		parser.On("ParseTranscript", ctx, transcript).Return(parsed, nil)

		raw, err := svc.Parse(ctx, transcript)

		require.NoError(t, err)
		assert.Equal(t, parsed, raw)
	})

	t.Run("ParserFailure", func(t *testing.T) {
		svc, parser := newService(new(MockTranscriptParser), nil)
		parser.On("ParseTranscript", ctx, transcript).Return(nil, errors.New("no JSON object in model reply"))

		_, err := svc.Parse(ctx, transcript)

		assert.ErrorIs(t, err, ErrParseFailed)
		assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.ParseRequests.WithLabelValues("failed")))
	})

	t.Run("EmptyTranscript", func(t *testing.T) {
		svc, parser := newService(new(MockTranscriptParser), nil)

		_, err := svc.Parse(ctx, "   ")

		assert.ErrorIs(t, err, ErrEmptyTranscript)
		parser.AssertNotCalled(t, "ParseTranscript", mock.Anything, mock.Anything)
	})
}
