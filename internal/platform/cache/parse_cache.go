package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

var ErrCacheMiss = errors.New("cache miss")

// ParseCache stores raw parse results keyed by transcript and day. The day is part of
// the key because relative dates in a transcript resolve differently tomorrow.
type ParseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewParseCache(client *redis.Client, ttl time.Duration) *ParseCache {
	return &ParseCache{
		client: client,
		prefix: "parse:",
		ttl:    ttl,
	}
}

// Key hashes the day and the whitespace- and case-folded transcript.
func Key(day time.Time, transcript string) string {
	folded := strings.Join(strings.Fields(strings.ToLower(transcript)), " ")
	sum := sha256.Sum256([]byte(day.Format(transaction.DateLayout) + "|" + folded))
	return hex.EncodeToString(sum[:])
}

// Get returns ErrCacheMiss when nothing is stored under key.
func (c *ParseCache) Get(ctx context.Context, key string) (transaction.Raw, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read parse cache: %w", err)
	}

	var raw transaction.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode cached parse: %w", err)
	}
	return raw, nil
}

func (c *ParseCache) Set(ctx context.Context, key string, raw transaction.Raw) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode parse for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write parse cache: %w", err)
	}
	return nil
}
