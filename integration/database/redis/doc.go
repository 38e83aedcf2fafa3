// Package redis provides Redis client initialization and health checking
// for the distributed rate-limit store and the sealed session store.
//
// Connect validates the connection URL, dials with retry, and verifies
// connectivity with a ping before returning the client, so a returned
// client is known-good:
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer client.Close()
//
//	store := ratelimit.NewRedisStore(client)
//
// Both redis:// and rediss:// (TLS) URL schemes are accepted.
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// # Health Checking
//
// Healthcheck returns a func(context.Context) error suitable for health
// endpoints; it pings the server and wraps failures in
// ErrHealthcheckFailed.
package redis
