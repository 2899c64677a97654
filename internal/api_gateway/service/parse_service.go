package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/platform/cache"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

var (
	ErrEmptyTranscript = errors.New("transcript is required")
	ErrParseFailed     = errors.New("transcript could not be parsed")
)

// ParseServiceImpl implements the ParseService interface
type ParseServiceImpl struct {
	parser  TranscriptParser
	cache   ParseCache // nil disables caching
	metrics *metrics.Metrics
	now     func() time.Time
	logger  *slog.Logger
}

func NewParseService(logger *slog.Logger, parser TranscriptParser, parseCache ParseCache, m *metrics.Metrics) ParseService {
	return &ParseServiceImpl{
		parser:  parser,
		cache:   parseCache,
		metrics: m,
		now:     time.Now,
		logger:  logger,
	}
}

// Parse serves a cached parse for the same transcript on the same day, otherwise asks the
// model. Cache failures are logged and never fail the request.
func (s *ParseServiceImpl) Parse(ctx context.Context, transcript string) (transaction.Raw, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	key := cache.Key(s.now(), transcript)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.metrics.ParseCacheHits.Inc()
			s.metrics.ParseRequests.WithLabelValues("cached").Inc()
			return raw, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.ParseCacheMisses.Inc()
		default:
			s.metrics.ParseCacheMisses.Inc()
			s.logger.Warn("Parse cache read failed", "error", err)
		}
	}

	start := time.Now()
	raw, err := s.parser.ParseTranscript(ctx, transcript)
	s.metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ParseRequests.WithLabelValues("failed").Inc()
		s.logger.Error("Failed to parse transcript", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	s.metrics.ParseRequests.WithLabelValues("parsed").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.logger.Warn("Parse cache write failed", "error", err)
		}
	}

	return raw, nil
}
