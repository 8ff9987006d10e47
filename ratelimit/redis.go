// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrBackend wraps failures talking to the counter store.
var ErrBackend = errors.New("rate limit backend unavailable")

const keyPrefix = "ratelimit:"

// RedisLimiter shares counters between instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedis(client *redis.Client, limit int, windowSize time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: windowSize,
		now:    time.Now,
	}
}

// Allow increments the counter for key. The window starts at the first hit:
// EXPIRE NX in the same transaction gives a fresh key its TTL and leaves
// running windows alone. Requires Redis 7.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := keyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		ttl = l.window
	}

	return decide(l.limit, int(incr.Val()), l.now().Add(ttl)), nil
}
