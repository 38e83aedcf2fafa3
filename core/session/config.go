package session

import (
	"log/slog"
	"time"

	"github.com/resumekit/guardkit/core/notifier"
	"github.com/resumekit/guardkit/pkg/clock"
)

// Config holds session registry configuration.
type Config struct {
	// MaxAge is the absolute session lifetime from creation.
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	// InactivityTimeout marks a session inactive after this much idle time.
	InactivityTimeout time.Duration `env:"SESSION_INACTIVITY_TIMEOUT" envDefault:"30m"`
	// TouchInterval throttles activity writes: a Touch within this window
	// of the last one is a no-op. Zero disables throttling.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"1m"`
	// CleanupInterval is the background sweep period.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
	// MaxSessions caps concurrently active sessions; the least recently
	// active beyond the cap are deactivated.
	MaxSessions int `env:"SESSION_MAX_SESSIONS" envDefault:"5"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MaxAge <= 0 || c.InactivityTimeout <= 0 || c.MaxSessions <= 0 {
		return ErrInvalidConfig
	}
	if c.TouchInterval < 0 || c.CleanupInterval < 0 {
		return ErrInvalidConfig
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		MaxAge:            24 * time.Hour,
		InactivityTimeout: 30 * time.Minute,
		TouchInterval:     time.Minute,
		CleanupInterval:   5 * time.Minute,
		MaxSessions:       5,
	}
}

// Option is a functional option for configuring the session registry.
type Option func(*registryOptions)

type registryOptions struct {
	config          Config
	configSet       bool
	clock           clock.Clock
	logger          *slog.Logger
	notifier        notifier.Notifier
	shutdownTimeout time.Duration
}

// WithConfig replaces the default registry configuration.
func WithConfig(cfg Config) Option {
	return func(o *registryOptions) {
		o.config = cfg
		o.configSet = true
	}
}

// WithClock injects a time source, primarily for tests.
func WithClock(clk clock.Clock) Option {
	return func(o *registryOptions) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// WithLogger sets the logger for sweep and eviction events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNotifier routes session security warnings to a display surface,
// so validation failures can prompt the user to refresh or sign in again.
func WithNotifier(n notifier.Notifier) Option {
	return func(o *registryOptions) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout for Stop.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *registryOptions) {
		if timeout > 0 {
			o.shutdownTimeout = timeout
		}
	}
}
