// Package clock provides an injectable time source for components with
// time-window logic.
//
// Production code uses the system clock; tests advance a mock clock
// deterministically instead of sleeping through real timers.
//
// Basic usage:
//
//	limiter := ratelimit.NewMemoryStore() // uses clock.System() by default
//
//	// In tests:
//	clk := clock.NewMock(time.Now())
//	store := ratelimit.NewMemoryStore(ratelimit.WithClock(clk))
//	clk.Advance(time.Minute) // window boundaries pass without sleeping
//
// The Mock clock is safe for concurrent use. Waiters registered through
// After are released when Advance moves the mock time past their deadline.
package clock
