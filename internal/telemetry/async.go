package telemetry

import (
	"context"
	"log"
	"time"

	"authcore/internal/telemetry/domain"
)

// EmitAsync runs Emit in a goroutine with a short timeout so auth request
// paths are not blocked by a slow broker. Errors are logged, never returned.
func EmitAsync(emitter EventEmitter, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Printf("telemetry: async emit failed: %v", err)
		}
	}()
}
