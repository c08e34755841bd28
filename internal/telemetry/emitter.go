package telemetry

import (
	"context"

	"authcore/internal/telemetry/domain"
)

// EventEmitter emits auth lifecycle events (e.g. to Kafka or OTel Logs).
// Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Noop is an EventEmitter that discards all events.
type Noop struct{}

// Emit discards the event.
func (Noop) Emit(context.Context, *domain.Event) error { return nil }
