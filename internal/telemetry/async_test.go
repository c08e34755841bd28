package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"authcore/internal/telemetry/domain"
)

type chanEmitter struct {
	got chan *domain.Event
	err error
}

func (e *chanEmitter) Emit(ctx context.Context, event *domain.Event) error {
	e.got <- event
	return e.err
}

func TestEmitAsync_DeliversEvent(t *testing.T) {
	emitter := &chanEmitter{got: make(chan *domain.Event, 1)}
	event := &domain.Event{EventType: domain.EventSessionCreated, Source: "test"}

	EmitAsync(emitter, event)

	select {
	case got := <-emitter.got:
		if got.EventType != domain.EventSessionCreated {
			t.Errorf("event type = %q", got.EventType)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not emitted")
	}
}

func TestEmitAsync_SwallowsEmitterError(t *testing.T) {
	emitter := &chanEmitter{got: make(chan *domain.Event, 1), err: errors.New("broker down")}

	EmitAsync(emitter, &domain.Event{EventType: domain.EventSessionRevoked})

	select {
	case <-emitter.got:
	case <-time.After(time.Second):
		t.Fatal("event was not emitted")
	}
}

func TestEmitAsync_NilArgumentsNoop(t *testing.T) {
	EmitAsync(nil, &domain.Event{EventType: domain.EventSessionCreated})
	EmitAsync(Noop{}, nil)
}
