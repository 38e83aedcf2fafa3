package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/resumekit/guardkit/core/logger"
	"github.com/resumekit/guardkit/pkg/clock"
)

// entry is one key's fixed-window counter.
type entry struct {
	count       int
	windowStart time.Time
	resetAt     time.Time
}

// MemoryStore implements Store using in-process storage.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	// Configuration
	sweepInterval   time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	clock           clock.Clock

	// State management
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	entriesCreated atomic.Int64
	entriesSwept   atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	EntriesCreated int64 // Total number of window entries created
	EntriesSwept   int64 // Total number of expired entries removed by the sweep
	ActiveEntries  int   // Current number of live entries
	IsRunning      bool  // Whether the sweep goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often the background sweep removes expired
// window entries.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepInterval = interval
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithMemoryStoreClock injects a time source, primarily for tests.
func WithMemoryStoreClock(clk clock.Clock) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if clk != nil {
			ms.clock = clk
		}
	}
}

// NewMemoryStore creates a new in-memory store.
// Call Start() to begin the background sweep.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]*entry),
		sweepInterval:   time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          logger.Discard(),
		clock:           clock.System(),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Increment implements Store. The window entry is replaced wholesale once
// its reset time has passed; within a live window the counter never grows
// past cfg.MaxRequests, so blocked requests return cfg.MaxRequests+1
// without mutating state.
func (ms *MemoryStore) Increment(ctx context.Context, key string, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	e, exists := ms.entries[key]

	if !exists || !now.Before(e.resetAt) {
		e = &entry{
			count:       1,
			windowStart: now,
			resetAt:     now.Add(cfg.Window),
		}
		ms.entries[key] = e
		ms.entriesCreated.Add(1)
		return e.count, e.resetAt, nil
	}

	if e.count < cfg.MaxRequests {
		e.count++
		return e.count, e.resetAt, nil
	}

	return e.count + 1, e.resetAt, nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

// Start begins the background sweep. This is a blocking operation that
// runs until the context is cancelled. Use Run() for the errgroup pattern
// or call this in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store already started")
	}

	if ms.sweepInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("sweep interval must be > 0, got %v (use WithSweepInterval to configure)", ms.sweepInterval)
	}

	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ms.ctx, "rate limit sweep started",
		slog.Duration("sweep_interval", ms.sweepInterval))

	ticker := time.NewTicker(ms.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "rate limit sweep stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.sweepWithWait()
		}
	}
}

// Stop gracefully shuts down the background sweep with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store not started")
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.InfoContext(context.Background(), "memory store stopped cleanly")
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "memory store shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the sweep, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop() // Ignore stop error in normal shutdown
			<-errCh       // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// sweepWithWait tracks the sweep with the WaitGroup so Stop can wait for
// an in-progress pass.
func (ms *MemoryStore) sweepWithWait() {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.Unlock()

	defer ms.wg.Done()
	ms.Sweep()
}

// Sweep deletes entries whose window has passed and no new request
// recreated, bounding memory growth. Safe to call directly; the background
// loop calls it on every tick.
func (ms *MemoryStore) Sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	removed := 0
	for key, e := range ms.entries {
		if !now.Before(e.resetAt) {
			delete(ms.entries, key)
			removed++
		}
	}

	if removed > 0 {
		ms.entriesSwept.Add(int64(removed))
	}
}

// Stats returns current memory store statistics for observability.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	isRunning := ms.cancel != nil
	active := len(ms.entries)
	ms.mu.Unlock()

	return MemoryStoreStats{
		EntriesCreated: ms.entriesCreated.Load(),
		EntriesSwept:   ms.entriesSwept.Load(),
		ActiveEntries:  active,
		IsRunning:      isRunning,
	}
}

// Healthcheck validates that the memory store is operational.
// Returns nil if healthy, or an error describing the health issue.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	stats := ms.Stats()

	if ms.sweepInterval > 0 && !stats.IsRunning {
		return fmt.Errorf("sweep is configured but not running")
	}

	return nil
}
