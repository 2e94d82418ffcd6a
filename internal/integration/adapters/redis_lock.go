// Package adapters implements integration adapters for external services.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/budget-tracker/engine/internal/application/adapter"
)

// redisRunLock implements adapter.RunLock on a Redis lease: SET NX with a TTL
// so a crashed holder frees the lock by expiry.
type redisRunLock struct {
	client *redis.Client
}

// NewRedisRunLock creates a new Redis-backed run lock.
func NewRedisRunLock(client *redis.Client) adapter.RunLock {
	return &redisRunLock{
		client: client,
	}
}

// Acquire tries to take the lease. Returns false when another holder owns it.
func (l *redisRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock %s: %w", key, err)
	}
	return ok, nil
}

// Release gives the lease back. Releasing an expired lease is a no-op.
func (l *redisRunLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release run lock %s: %w", key, err)
	}
	return nil
}
