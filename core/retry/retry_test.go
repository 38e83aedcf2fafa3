package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/guardkit/core/retry"
)

var errBoom = errors.New("network timeout")

// fastPolicy keeps test waits in the millisecond range with no jitter.
func fastPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		Name:        "test",
		MaxAttempts: maxAttempts,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
		Multiplier:  1,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	retries := 0
	policy := fastPolicy(3)
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		retries++
		assert.Equal(t, calls, attempt)
		assert.Equal(t, 10*time.Millisecond, delay)
		assert.ErrorIs(t, err, errBoom)
	}

	start := time.Now()
	result, err := retry.Do(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", errBoom
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
	// Two waits of 10ms each before the succeeding attempt.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDo_ReportsGrowingDelays(t *testing.T) {
	t.Parallel()

	policy := retry.Policy{
		Name:        "test",
		MaxAttempts: 4,
		BaseDelay:   5 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
		Multiplier:  2,
	}

	var delays []time.Duration
	policy.OnRetry = func(_ int, delay time.Duration, _ error) {
		delays = append(delays, delay)
	}

	_, err := retry.Do(context.Background(), policy, func(context.Context) (int, error) {
		return 0, errBoom
	})
	require.ErrorIs(t, err, retry.ErrExhausted)

	// Each wait reported to the hook is the one actually taken: base
	// delay doubled per attempt.
	assert.Equal(t, []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
	}, delays)
}

func TestDo_AttemptCap(t *testing.T) {
	t.Parallel()

	calls := 0
	exhaustedSeen := false
	policy := fastPolicy(3)
	policy.OnExhausted = func(err error) {
		exhaustedSeen = true
		assert.ErrorIs(t, err, errBoom)
	}

	_, err := retry.Do(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})

	assert.Equal(t, 3, calls)
	assert.True(t, exhaustedSeen)

	require.ErrorIs(t, err, retry.ErrExhausted)
	require.ErrorIs(t, err, errBoom)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "test", exhausted.Op)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, errBoom, exhausted.Err)
}

func TestDo_NonRetryShortCircuit(t *testing.T) {
	t.Parallel()

	terminal := errors.New("validation failed: empty file")
	calls := 0
	policy := fastPolicy(5)
	policy.RetryIf = func(err error) bool { return false }

	_, err := retry.Do(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, terminal
	})

	assert.Equal(t, 1, calls)
	// Returned unchanged: no exhaustion tag, no wrapping.
	assert.Equal(t, terminal, err)
	assert.NotErrorIs(t, err, retry.ErrExhausted)
}

func TestDo_FirstTrySuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := retry.Do(context.Background(), fastPolicy(3), func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelDuringWait(t *testing.T) {
	t.Parallel()

	policy := fastPolicy(5)
	policy.BaseDelay = 10 * time.Second
	policy.MaxDelay = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		_, err := retry.Do(ctx, policy, func(ctx context.Context) (int, error) {
			calls++
			return 0, errBoom
		})
		done <- err
	}()

	// Let the first attempt fail and the wait begin, then cancel.
	require.Eventually(t, func() bool { return calls == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancel")
	}
}

func TestDo_ZeroValuePolicy(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})

	// Degrades to a single attempt.
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, retry.ErrExhausted)
}

func TestExec(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Exec(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"network flavored", errors.New("network error: connection refused"), true},
		{"timeout flavored", errors.New("request timed out"), true},
		{"deadline", context.DeadlineExceeded, true},
		{"service unavailable", errors.New("503 service unavailable"), true},
		{"throttled upstream", errors.New("429 too many requests"), true},
		{"validation", errors.New("validation failed: missing name"), false},
		{"auth", errors.New("401 unauthorized"), false},
		{"plain", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, retry.Transient(tt.err))
		})
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, retry.Terminal(errors.New("invalid CV format")))
	assert.True(t, retry.Terminal(errors.New("403 forbidden")))
	assert.False(t, retry.Terminal(errors.New("connection reset by peer")))
	assert.False(t, retry.Terminal(nil))
}

func TestClassPolicies(t *testing.T) {
	t.Parallel()

	t.Run("network policy retries everything", func(t *testing.T) {
		t.Parallel()

		p := retry.NetworkPolicy()
		assert.True(t, p.RetryIf(errors.New("validation failed")))
		assert.True(t, p.RetryIf(errors.New("anything at all")))
	})

	t.Run("file policies skip terminal errors", func(t *testing.T) {
		t.Parallel()

		for _, p := range []retry.Policy{
			retry.UploadPolicy(), retry.AnalysisPolicy(), retry.EditPolicy(), retry.DownloadPolicy(),
		} {
			assert.True(t, p.RetryIf(errors.New("connection timeout")), p.Name)
			assert.False(t, p.RetryIf(errors.New("401 unauthorized")), p.Name)
			assert.False(t, p.RetryIf(errors.New("validation failed")), p.Name)
			assert.GreaterOrEqual(t, p.MaxAttempts, 2, p.Name)
		}
	})
}
