// Package notifier delivers user-facing resilience events: rate-limit
// blocks, retry scheduling and exhaustion, and session security warnings.
//
// The package separates producing an event from delivering it. Producers
// (the guard, the retry engine, session validation) build Events through
// the typed constructors; delivery is behind the Notifier interface so an
// application can route events to its own toast/banner surface while
// tests capture them in a channel.
//
// # Usage
//
//	events := notifier.NewChannel(16)
//	n := notifier.Multi(
//		notifier.NewSlog(logger),
//		events,
//	)
//
//	n.Notify(ctx, notifier.RateLimited("upload", 30*time.Second))
//
//	// Somewhere in the UI layer:
//	for ev := range events.Events() {
//		showToast(ev.Message)
//	}
//
// # Event Text
//
// Constructor messages are complete sentences ready for direct display.
// Durations are humanized ("try again in 30 seconds", "try again in 2
// minutes") rather than rendered as Go duration strings. Meta carries the
// structured fields for callers that render their own text.
//
// # Delivery Semantics
//
// Notify never blocks and never fails: Slog writes synchronously, Channel
// drops events when its buffer is full, and Multi fans out to each target
// in order. Producers stay decoupled from slow or absent consumers.
package notifier
