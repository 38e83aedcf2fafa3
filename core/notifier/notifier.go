package notifier

import (
	"context"
	"log/slog"
)

// Level classifies an event's severity for display purposes.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one user-facing notification. Message is display-ready text;
// Meta carries the structured fields it was rendered from.
type Event struct {
	Level   Level          `json:"level"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Notifier delivers events to a display surface. Implementations must
// not block the caller.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, ev Event)

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Noop returns a Notifier that discards every event.
func Noop() Notifier {
	return Func(func(context.Context, Event) {})
}

// NewSlog returns a Notifier that writes events as structured log records.
func NewSlog(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return Func(func(ctx context.Context, ev Event) {
		attrs := []any{
			slog.String("code", ev.Code),
		}
		if len(ev.Meta) > 0 {
			attrs = append(attrs, slog.Any("meta", ev.Meta))
		}

		switch ev.Level {
		case LevelError:
			logger.ErrorContext(ctx, ev.Message, attrs...)
		case LevelWarning:
			logger.WarnContext(ctx, ev.Message, attrs...)
		default:
			logger.InfoContext(ctx, ev.Message, attrs...)
		}
	})
}

// Channel buffers events for a consumer loop. When the buffer is full,
// new events are dropped rather than blocking the producer.
type Channel struct {
	ch chan Event
}

// NewChannel creates a channel notifier with the given buffer size.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 1
	}
	return &Channel{ch: make(chan Event, size)}
}

// Notify implements Notifier. Full buffers drop the event.
func (c *Channel) Notify(_ context.Context, ev Event) {
	select {
	case c.ch <- ev:
	default:
	}
}

// Events returns the receive side for the consumer loop.
func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Close closes the event channel. Call only after producers have stopped.
func (c *Channel) Close() {
	close(c.ch)
}

// Multi fans an event out to every target notifier in order.
func Multi(targets ...Notifier) Notifier {
	return Func(func(ctx context.Context, ev Event) {
		for _, t := range targets {
			if t != nil {
				t.Notify(ctx, ev)
			}
		}
	})
}
