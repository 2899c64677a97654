package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore maps client idempotency keys to the transaction id first issued for them.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
		ttl:    ttl,
	}
}

// Reserve binds key to transactionID unless the key is already bound, in which case the
// earlier transaction id is returned with reserved set to false.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, transactionID string) (string, bool, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, transactionID, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if set {
		return transactionID, true, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return existing, false, nil
}

// Release drops a reservation whose save could not be queued.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
