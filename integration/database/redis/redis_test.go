package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/resumekit/guardkit/integration/database/redis"
)

func TestConnect_URLValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://localhost:6379"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseConnString)
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis:///bad/db/path"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseConnString)
	})
}

func TestConnect_UnreachableServer(t *testing.T) {
	t.Parallel()

	// Reserved TEST-NET address: connection attempts fail fast and the
	// configured retries are exhausted.
	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://192.0.2.1:6379/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrNotReady)
}
