package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resumekit/guardkit/pkg/clock"
)

// redisKeyPrefix namespaces limiter counters within a shared database.
const redisKeyPrefix = "ratelimit:"

// RedisStore implements Store on a shared Redis database, making limits
// visible across processes. Redis key expiry replaces the in-memory
// sweep: an entry disappears on its own once the window passes.
//
// Racing processes can overshoot the cap by a request or two around a
// window boundary. The drift is bounded and self-corrects at the next
// window; distributed locking is not worth its cost here.
type RedisStore struct {
	client *redis.Client
	clock  clock.Clock
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisStoreClock injects a time source, primarily for tests.
func WithRedisStoreClock(clk clock.Clock) RedisStoreOption {
	return func(rs *RedisStore) {
		if clk != nil {
			rs.clock = clk
		}
	}
}

// NewRedisStore creates a Store backed by an existing Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}

	rs := &RedisStore{
		client: client,
		clock:  clock.System(),
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs, nil
}

// Increment implements Store. The counter and its expiry are created
// atomically for the first request of a window; later requests reuse the
// remaining TTL as the reset time.
func (rs *RedisStore) Increment(ctx context.Context, key string, cfg Config) (int, time.Time, error) {
	rkey := redisKeyPrefix + key
	now := rs.clock.Now()

	count, err := rs.client.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := rs.client.PExpire(ctx, rkey, cfg.Window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		return int(count), now.Add(cfg.Window), nil
	}

	ttl, err := rs.client.PTTL(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if ttl < 0 {
		// Expiry lost (e.g. the PExpire of a racing first request failed).
		// Restore it so the counter cannot live forever.
		if err := rs.client.PExpire(ctx, rkey, cfg.Window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = cfg.Window
	}

	return int(count), now.Add(ttl), nil
}

// Reset implements Store.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Healthcheck verifies Redis connectivity with a ping.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}
