package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/resumekit/guardkit/core/logger"
	"github.com/resumekit/guardkit/core/notifier"
	"github.com/resumekit/guardkit/core/sanitizer"
	"github.com/resumekit/guardkit/pkg/clock"
	"github.com/resumekit/guardkit/pkg/fingerprint"
)

// volatileSignals are excluded from the stable environment signature.
// Accept headers shift with content negotiation and browser extensions;
// their drift alone should not carry the full fingerprint penalty.
var volatileSignals = []string{
	fingerprint.SignalAcceptLang,
	fingerprint.SignalAcceptEnc,
	fingerprint.SignalAccept,
}

// Registry creates, validates, ages out, and limits concurrent sessions.
// It owns its lifecycle explicitly: construct one per scope, start its
// sweep, and stop it on teardown. There is no ambient global registry.
type Registry[Data any] struct {
	store    Store[Data]
	provider fingerprint.SignalProvider
	config   Config
	clock    clock.Clock
	logger   *slog.Logger
	notifier notifier.Notifier

	// State management
	mu              sync.Mutex
	ctx             context.Context
	cancel          context.CancelFunc
	running         atomic.Bool
	wg              sync.WaitGroup
	shutdownTimeout time.Duration

	// Observability metrics
	sessionsCreated atomic.Int64
	recordsSwept    atomic.Int64
	cappedSessions  atomic.Int64
}

// RegistryStats provides observability metrics for monitoring and debugging.
type RegistryStats struct {
	SessionsCreated int64 // Total sessions created by this registry
	RecordsSwept    int64 // Total records deleted by the cleanup sweep
	CappedSessions  int64 // Total sessions deactivated by the session cap
	IsRunning       bool  // Whether the sweep goroutine is running
}

// NewRegistry creates a session registry over a store and an environment
// signal provider. The provider supplies the signals that fingerprint a
// session's environment at creation and at every validation.
func NewRegistry[Data any](store Store[Data], provider fingerprint.SignalProvider, opts ...Option) (*Registry[Data], error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if provider == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("signal provider is required"))
	}

	o := &registryOptions{
		config:          defaultConfig(),
		clock:           clock.System(),
		logger:          logger.Discard(),
		notifier:        notifier.Noop(),
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.configSet {
		if err := o.config.Validate(); err != nil {
			return nil, err
		}
	}

	return &Registry[Data]{
		store:           store,
		provider:        provider,
		config:          o.config,
		clock:           o.clock,
		logger:          o.logger,
		notifier:        o.notifier,
		shutdownTimeout: o.shutdownTimeout,
	}, nil
}

// Create starts a new session: generates its identity, captures the
// environment fingerprints, sanitizes metadata, persists the record, and
// enforces the active-session cap.
func (r *Registry[Data]) Create(ctx context.Context, metadata map[string]string) (Session[Data], error) {
	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, err
	}

	now := r.clock.Now()
	sess := Session[Data]{
		ID:           uuid.New(),
		Token:        token,
		Fingerprint:  fingerprint.Generate(r.provider),
		EnvSignature: fingerprint.Generate(r.provider, fingerprint.Exclude(volatileSignals...)),
		Metadata:     sanitizer.Metadata(metadata, metadataMaxValueLen),
		CreatedAt:    now,
		LastActivity: now,
		Active:       true,
	}

	if err := r.store.Save(ctx, &sess); err != nil {
		return Session[Data]{}, errors.Join(ErrStoreFailure, err)
	}
	r.sessionsCreated.Add(1)

	if err := r.EnforceLimits(ctx); err != nil {
		return Session[Data]{}, err
	}

	r.logger.InfoContext(ctx, "session created", logger.SessionID(sess.ID.String()))
	return sess, nil
}

// Current returns the active session with the most recent activity.
func (r *Registry[Data]) Current(ctx context.Context) (Session[Data], error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return Session[Data]{}, errors.Join(ErrStoreFailure, err)
	}

	var current *Session[Data]
	for i := range all {
		if !all[i].Active {
			continue
		}
		if current == nil || all[i].LastActivity.After(current.LastActivity) {
			current = &all[i]
		}
	}

	if current == nil {
		return Session[Data]{}, ErrNoActiveSession
	}
	return *current, nil
}

// Touch records user activity on a session: bumps LastActivity and
// re-activates the record. Calls within TouchInterval of the previous
// write are dropped to keep coarse-grained input events (pointer, key,
// scroll) from hammering the store.
func (r *Registry[Data]) Touch(ctx context.Context, id uuid.UUID) error {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	if sess.Active && now.Sub(sess.LastActivity) < r.config.TouchInterval {
		return nil
	}

	sess.LastActivity = now
	sess.Active = true

	if err := r.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// SetData replaces a session's application payload.
func (r *Registry[Data]) SetData(ctx context.Context, id uuid.UUID, data Data) error {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.Data = data
	if err := r.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Validate runs the identity-continuity checks for a session and computes
// its trust score. The verdict is returned even for failing sessions; the
// error is reserved for lookup and storage failures.
func (r *Registry[Data]) Validate(ctx context.Context, id uuid.UUID) (Validation, error) {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return Validation{}, err
	}

	now := r.clock.Now()
	v := Validation{Score: scoreStart}

	if sess.Expired(now, r.config.MaxAge) {
		v.Expired = true
		v.Score -= penaltyExpired
		v.Warnings = append(v.Warnings, WarnExpired)
	}

	if sess.Idle(now, r.config.InactivityTimeout) {
		v.Inactive = true
		v.Score -= penaltyInactive
		v.Warnings = append(v.Warnings, WarnInactive)
	}

	if fingerprint.Validate(r.provider, sess.Fingerprint) != nil {
		v.Score -= penaltyFingerprint
		v.Warnings = append(v.Warnings, WarnFingerprintMismatch)
	}

	if fingerprint.Validate(r.provider, sess.EnvSignature, fingerprint.Exclude(volatileSignals...)) != nil {
		v.Score -= penaltyEnvSignature
		v.Warnings = append(v.Warnings, WarnEnvSignatureDrift)
	}

	v.Score = max(v.Score, 0)
	v.Valid = v.Score > validScoreThreshold && !v.Expired

	if len(v.Warnings) > 0 {
		r.logger.WarnContext(ctx, "session continuity warnings",
			logger.SessionID(id.String()),
			logger.Score(v.Score),
			logger.Warnings(v.Warnings))
		r.notifier.Notify(ctx, notifier.SessionWarning(v.Score, v.Warnings))
	}

	return v, nil
}

// Invalidate deactivates a session without deleting it; the record stays
// visible for audit until the cleanup sweep removes it.
func (r *Registry[Data]) Invalidate(ctx context.Context, id uuid.UUID) error {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.Active = false
	if err := r.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	r.logger.InfoContext(ctx, "session invalidated", logger.SessionID(id.String()))
	return nil
}

// EnforceLimits keeps at most MaxSessions records active, ordered by
// most recent activity; the remainder are deactivated oldest-first.
func (r *Registry[Data]) EnforceLimits(ctx context.Context) error {
	all, err := r.store.All(ctx)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	active := all[:0]
	for _, sess := range all {
		if sess.Active {
			active = append(active, sess)
		}
	}

	if len(active) <= r.config.MaxSessions {
		return nil
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].LastActivity.After(active[j].LastActivity)
	})

	for _, sess := range active[r.config.MaxSessions:] {
		sess.Active = false
		if err := r.store.Save(ctx, &sess); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
		r.cappedSessions.Add(1)
		r.logger.InfoContext(ctx, "session deactivated by cap",
			logger.SessionID(sess.ID.String()))
	}

	return nil
}

// CleanupExpired deletes records that are both expired and inactivity
// timed-out. Idempotent: a second pass with no intervening activity
// removes nothing.
func (r *Registry[Data]) CleanupExpired(ctx context.Context) error {
	all, err := r.store.All(ctx)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	now := r.clock.Now()
	removed := 0
	for _, sess := range all {
		if sess.Expired(now, r.config.MaxAge) && sess.Idle(now, r.config.InactivityTimeout) {
			if err := r.store.Delete(ctx, sess.ID); err != nil {
				return errors.Join(ErrStoreFailure, err)
			}
			removed++
		}
	}

	if removed > 0 {
		r.recordsSwept.Add(int64(removed))
		r.logger.InfoContext(ctx, "expired sessions removed", logger.Count("count", removed))
	}

	return nil
}

// Start begins the background sweep (cleanup + cap enforcement). This is
// a blocking operation that runs until the context is cancelled. Use
// Run() for the errgroup pattern or call this in a goroutine.
func (r *Registry[Data]) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return fmt.Errorf("session registry already started")
	}

	if r.config.CleanupInterval <= 0 {
		r.mu.Unlock()
		return fmt.Errorf("cleanup interval must be > 0, got %v", r.config.CleanupInterval)
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.running.Store(true)
	defer r.running.Store(false)

	r.logger.InfoContext(r.ctx, "session sweep started",
		logger.Duration(r.config.CleanupInterval))

	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.InfoContext(context.Background(), "session sweep stopping")
			return r.ctx.Err()
		case <-ticker.C:
			r.sweepWithWait()
		}
	}
}

// Stop gracefully shuts down the background sweep with a timeout.
func (r *Registry[Data]) Stop() error {
	r.mu.Lock()
	if r.cancel == nil {
		r.mu.Unlock()
		return fmt.Errorf("session registry not started")
	}

	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout exceeded after %s", r.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (r *Registry[Data]) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- r.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = r.Stop() // Ignore stop error in normal shutdown
			<-errCh      // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Sweep runs one cleanup + cap enforcement pass. The background loop
// calls it on every tick; callers may also invoke it opportunistically,
// e.g. on a cross-process storage-change notification.
func (r *Registry[Data]) Sweep(ctx context.Context) {
	start := time.Now()
	cleanupErr := r.CleanupExpired(ctx)
	capErr := r.EnforceLimits(ctx)
	if cleanupErr != nil || capErr != nil {
		r.logger.ErrorContext(ctx, "session sweep errors", logger.Errors(cleanupErr, capErr))
		return
	}
	r.logger.DebugContext(ctx, "session sweep finished", logger.Elapsed(start))
}

func (r *Registry[Data]) sweepWithWait() {
	r.mu.Lock()
	if r.cancel == nil {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	ctx := r.ctx
	r.mu.Unlock()

	defer r.wg.Done()
	r.Sweep(ctx)
}

// Stats returns current registry statistics for observability.
func (r *Registry[Data]) Stats() RegistryStats {
	r.mu.Lock()
	isRunning := r.cancel != nil
	r.mu.Unlock()

	return RegistryStats{
		SessionsCreated: r.sessionsCreated.Load(),
		RecordsSwept:    r.recordsSwept.Load(),
		CappedSessions:  r.cappedSessions.Load(),
		IsRunning:       isRunning,
	}
}

// Get returns one session record by ID.
func (r *Registry[Data]) Get(ctx context.Context, id uuid.UUID) (Session[Data], error) {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return Session[Data]{}, err
	}
	return *sess, nil
}
