package session_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/guardkit/core/logger"
	"github.com/resumekit/guardkit/core/notifier"
	"github.com/resumekit/guardkit/core/session"
	"github.com/resumekit/guardkit/pkg/clock"
	"github.com/resumekit/guardkit/pkg/fingerprint"
)

type testData struct {
	Draft string `json:"draft"`
}

// envProvider is a mutable SignalProvider so tests can simulate an
// environment change between creation and validation.
type envProvider struct {
	mu      sync.Mutex
	signals []fingerprint.Signal
}

func newEnvProvider() *envProvider {
	return &envProvider{signals: []fingerprint.Signal{
		{Name: fingerprint.SignalUserAgent, Value: "TestBrowser/1.0"},
		{Name: fingerprint.SignalAcceptLang, Value: "en-US"},
		{Name: fingerprint.SignalConcurrency, Value: "8"},
	}}
}

func (p *envProvider) Signals() []fingerprint.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]fingerprint.Signal(nil), p.signals...)
}

func (p *envProvider) set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.signals {
		if p.signals[i].Name == name {
			p.signals[i].Value = value
			return
		}
	}
	p.signals = append(p.signals, fingerprint.Signal{Name: name, Value: value})
}

func testConfig() session.Config {
	return session.Config{
		MaxAge:            24 * time.Hour,
		InactivityTimeout: 30 * time.Minute,
		TouchInterval:     time.Minute,
		CleanupInterval:   5 * time.Minute,
		MaxSessions:       5,
	}
}

func newTestRegistry(t *testing.T, clk clock.Clock, provider fingerprint.SignalProvider) (*session.Registry[testData], *session.MemoryStore[testData]) {
	t.Helper()

	store := session.NewMemoryStore[testData]()
	registry, err := session.NewRegistry(store, provider,
		session.WithConfig(testConfig()),
		session.WithClock(clk))
	require.NoError(t, err)
	return registry, store
}

func TestNewRegistry_Validation(t *testing.T) {
	t.Parallel()

	provider := newEnvProvider()
	store := session.NewMemoryStore[testData]()

	t.Run("requires store", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewRegistry[testData](nil, provider)
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})

	t.Run("requires signal provider", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewRegistry(store, nil)
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})

	t.Run("rejects unusable config", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewRegistry(store, provider,
			session.WithConfig(session.Config{MaxAge: 0}))
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})
}

func TestRegistry_Create(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(10000, 0))
	registry, store := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	sess, err := registry.Create(ctx, map[string]string{
		"source": "<b>upload</b>-page",
		"note":   "line1\nline2",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Len(t, sess.Token, 43) // 32 bytes base64url without padding
	assert.Regexp(t, `^v1:[0-9a-f]{32}$`, sess.Fingerprint)
	assert.Regexp(t, `^v1:[0-9a-f]{32}$`, sess.EnvSignature)
	assert.NotEqual(t, sess.Fingerprint, sess.EnvSignature)
	assert.True(t, sess.Active)
	assert.Equal(t, clk.Now(), sess.CreatedAt)
	assert.Equal(t, clk.Now(), sess.LastActivity)

	// Metadata arrives sanitized.
	assert.Equal(t, "upload-page", sess.Metadata["source"])
	assert.Equal(t, "line1 line2", sess.Metadata["note"])

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, int64(1), registry.Stats().SessionsCreated)
}

func TestRegistry_Current(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(0, 0))
	registry, _ := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	t.Run("empty registry", func(t *testing.T) {
		_, err := registry.Current(ctx)
		assert.ErrorIs(t, err, session.ErrNoActiveSession)
	})

	first, err := registry.Create(ctx, nil)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := registry.Create(ctx, nil)
	require.NoError(t, err)

	t.Run("most recently active wins", func(t *testing.T) {
		current, err := registry.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, current.ID)
	})

	t.Run("touching an older session promotes it", func(t *testing.T) {
		clk.Advance(2 * time.Minute)
		require.NoError(t, registry.Touch(ctx, first.ID))

		current, err := registry.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, current.ID)
	})

	t.Run("invalidated sessions are skipped", func(t *testing.T) {
		require.NoError(t, registry.Invalidate(ctx, first.ID))

		current, err := registry.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, current.ID)
	})
}

func TestRegistry_Touch(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(0, 0))
	registry, _ := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	sess, err := registry.Create(ctx, nil)
	require.NoError(t, err)

	t.Run("throttled within touch interval", func(t *testing.T) {
		clk.Advance(10 * time.Second)
		require.NoError(t, registry.Touch(ctx, sess.ID))

		got, err := registry.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Unix(0, 0), got.LastActivity)
	})

	t.Run("recorded after the interval", func(t *testing.T) {
		clk.Advance(time.Minute)
		require.NoError(t, registry.Touch(ctx, sess.ID))

		got, err := registry.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, clk.Now(), got.LastActivity)
	})

	t.Run("reactivates an invalidated session immediately", func(t *testing.T) {
		require.NoError(t, registry.Invalidate(ctx, sess.ID))
		require.NoError(t, registry.Touch(ctx, sess.ID))

		got, err := registry.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, got.Active)
	})

	t.Run("unknown session", func(t *testing.T) {
		assert.ErrorIs(t, registry.Touch(ctx, uuid.New()), session.ErrNotFound)
	})
}

func TestRegistry_Validate(t *testing.T) {
	t.Parallel()

	t.Run("fresh session scores full marks", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		registry, _ := newTestRegistry(t, clk, newEnvProvider())
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		v, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, 100, v.Score)
		assert.Empty(t, v.Warnings)
		assert.NoError(t, v.Err())
	})

	t.Run("changed environment fails validation", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		provider := newEnvProvider()
		registry, _ := newTestRegistry(t, clk, provider)
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		provider.set(fingerprint.SignalUserAgent, "DifferentBrowser/9.9")

		v, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.LessOrEqual(t, v.Score, 60)
		assert.Contains(t, v.Warnings, session.WarnFingerprintMismatch)
		assert.Contains(t, v.Warnings, session.WarnEnvSignatureDrift)
		assert.ErrorIs(t, v.Err(), session.ErrInvalid)
	})

	t.Run("warnings reach the notifier", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		provider := newEnvProvider()
		events := notifier.NewChannel(4)
		registry, err := session.NewRegistry(session.NewMemoryStore[testData](), provider,
			session.WithConfig(testConfig()),
			session.WithClock(clk),
			session.WithNotifier(events))
		require.NoError(t, err)
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		// A clean validation emits nothing.
		_, err = registry.Validate(ctx, sess.ID)
		require.NoError(t, err)
		select {
		case <-events.Events():
			t.Fatal("no event expected for a clean validation")
		default:
		}

		provider.set(fingerprint.SignalUserAgent, "DifferentBrowser/9.9")
		v, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)

		ev := <-events.Events()
		assert.Equal(t, notifier.CodeSessionWarning, ev.Code)
		assert.Equal(t, notifier.LevelWarning, ev.Level)
		assert.Equal(t, v.Score, ev.Meta["score"])
		assert.Equal(t, v.Warnings, ev.Meta["warnings"])
	})

	t.Run("volatile signal drift penalizes fingerprint only", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		provider := newEnvProvider()
		registry, _ := newTestRegistry(t, clk, provider)
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		provider.set(fingerprint.SignalAcceptLang, "fr-FR")

		v, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 60, v.Score)
		assert.True(t, v.Valid)
		assert.Contains(t, v.Warnings, session.WarnFingerprintMismatch)
		assert.NotContains(t, v.Warnings, session.WarnEnvSignatureDrift)
	})

	t.Run("expired session is never valid", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		registry, _ := newTestRegistry(t, clk, newEnvProvider())
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		clk.Advance(25 * time.Hour)

		v, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, v.Expired)
		assert.True(t, v.Inactive)
		assert.False(t, v.Valid)
		assert.Equal(t, 20, v.Score) // 100 - 50 expired - 30 inactive
		assert.Contains(t, v.Warnings, session.WarnExpired)
		assert.Contains(t, v.Warnings, session.WarnInactive)
		assert.ErrorIs(t, v.Err(), session.ErrExpired)
	})

	t.Run("score accumulates downward and clamps at zero", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		provider := newEnvProvider()
		registry, _ := newTestRegistry(t, clk, provider)
		ctx := context.Background()

		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)

		// Fewer violations first.
		clk.Advance(31 * time.Minute)
		partial, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)

		// All four violations: expired + inactive + both continuity checks.
		clk.Advance(25 * time.Hour)
		provider.set(fingerprint.SignalUserAgent, "Evil/1.0")
		full, err := registry.Validate(ctx, sess.ID)
		require.NoError(t, err)

		assert.Less(t, full.Score, partial.Score)
		assert.Equal(t, 0, full.Score) // 100-50-30-40-20 clamps to 0
		assert.Len(t, full.Warnings, 4)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()

		clk := clock.NewMock(time.Unix(0, 0))
		registry, _ := newTestRegistry(t, clk, newEnvProvider())

		_, err := registry.Validate(context.Background(), uuid.New())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestRegistry_EnforceLimits(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(0, 0))
	registry, _ := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	// Six sessions with distinct activity times against a cap of five.
	var all []session.Session[testData]
	for range 6 {
		sess, err := registry.Create(ctx, nil)
		require.NoError(t, err)
		all = append(all, sess)
		clk.Advance(time.Minute)
	}

	active := 0
	for _, sess := range all {
		got, err := registry.Get(ctx, sess.ID)
		require.NoError(t, err)
		if got.Active {
			active++
		}
	}
	assert.Equal(t, 5, active)

	// Exactly the oldest-by-activity record was deactivated.
	oldest, err := registry.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.False(t, oldest.Active)

	assert.Equal(t, int64(1), registry.Stats().CappedSessions)
}

func TestRegistry_CleanupExpired(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(0, 0))
	registry, store := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	stale, err := registry.Create(ctx, nil)
	require.NoError(t, err)

	// Fresh session created well after the first one.
	clk.Advance(25 * time.Hour)
	fresh, err := registry.Create(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, registry.CleanupExpired(ctx))

	_, err = registry.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = registry.Get(ctx, fresh.ID)
	assert.NoError(t, err)

	t.Run("idempotent", func(t *testing.T) {
		before := store.Len()
		require.NoError(t, registry.CleanupExpired(ctx))
		assert.Equal(t, before, store.Len())
	})

	t.Run("expired but recently touched is retained", func(t *testing.T) {
		clk.Advance(25 * time.Hour)
		// fresh is now expired by age; keep it non-idle.
		require.NoError(t, registry.Touch(ctx, fresh.ID))

		require.NoError(t, registry.CleanupExpired(ctx))
		_, err := registry.Get(ctx, fresh.ID)
		assert.NoError(t, err)
	})
}

func TestRegistry_SetData(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock(time.Unix(0, 0))
	registry, _ := newTestRegistry(t, clk, newEnvProvider())
	ctx := context.Background()

	sess, err := registry.Create(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, registry.SetData(ctx, sess.ID, testData{Draft: "v2"}))

	got, err := registry.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Data.Draft)
}

func TestRegistry_SweepLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	clk := clock.NewMock(time.Unix(0, 0))
	registry, err := session.NewRegistry(session.NewMemoryStore[testData](), newEnvProvider(),
		session.WithConfig(testConfig()),
		session.WithClock(clk),
		session.WithLogger(logger.NewWithWriter(&buf, logger.Config{Level: "debug"})))
	require.NoError(t, err)

	registry.Sweep(context.Background())

	assert.Contains(t, buf.String(), "session sweep finished")
	assert.Contains(t, buf.String(), "elapsed=")
}

func TestRegistry_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("sweep loop runs and stops", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData]()
		cfg := testConfig()
		cfg.CleanupInterval = 10 * time.Millisecond
		registry, err := session.NewRegistry(store, newEnvProvider(),
			session.WithConfig(cfg))
		require.NoError(t, err)

		go func() { _ = registry.Start(context.Background()) }()
		require.Eventually(t, func() bool {
			return registry.Stats().IsRunning
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, registry.Stop())
		require.Eventually(t, func() bool {
			return !registry.Stats().IsRunning
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("run exits cleanly on cancel", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData]()
		cfg := testConfig()
		cfg.CleanupInterval = 10 * time.Millisecond
		registry, err := session.NewRegistry(store, newEnvProvider(),
			session.WithConfig(cfg))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- registry.Run(ctx)() }()

		require.Eventually(t, func() bool {
			return registry.Stats().IsRunning
		}, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not exit after cancel")
		}
	})

	t.Run("double start fails", func(t *testing.T) {
		t.Parallel()

		registry, err := session.NewRegistry(session.NewMemoryStore[testData](), newEnvProvider())
		require.NoError(t, err)

		go func() { _ = registry.Start(context.Background()) }()
		require.Eventually(t, func() bool {
			return registry.Stats().IsRunning
		}, time.Second, 5*time.Millisecond)

		assert.Error(t, registry.Start(context.Background()))
		require.NoError(t, registry.Stop())
	})
}
