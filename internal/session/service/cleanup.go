package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"authcore/internal/telemetry"
	telemetrydomain "authcore/internal/telemetry/domain"
)

// CleanupResult reports what one cleanup pass removed.
type CleanupResult struct {
	SessionsDeleted int64
	TokensDeleted   int64
}

// CleanupExpiredSessions deletes sessions past their expiry or revoked longer
// than the grace period ago, and prunes revocation entries whose token expiry
// has passed. Every delete is a single predicate statement, so concurrent
// sweepers in separate processes cannot race each other into inconsistency.
// Never deletes a live session: a row with a future expiry and is_revoked
// false matches no predicate.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) (CleanupResult, error) {
	now := time.Now().UTC()
	var res CleanupResult

	sessions, err := m.sessions.DeleteExpired(ctx, now, m.grace)
	if err != nil {
		return res, fmt.Errorf("delete expired sessions: %w", err)
	}
	res.SessionsDeleted = sessions

	tokens, err := m.registry.DeleteExpired(ctx, now)
	if err != nil {
		return res, fmt.Errorf("prune revocation registry: %w", err)
	}
	res.TokensDeleted = tokens

	meta, _ := json.Marshal(res)
	telemetry.EmitAsync(m.events, &telemetrydomain.Event{
		EventType: telemetrydomain.EventCleanupCompleted,
		Source:    "cleanup-sweeper",
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	})
	return res, nil
}
