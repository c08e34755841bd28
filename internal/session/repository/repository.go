package repository

import (
	"context"
	"time"

	"authcore/internal/session/domain"
)

// Repository defines persistence for sessions. Implementations must make
// Rotate a single atomic row update guarded by the current refresh hash: two
// concurrent rotations with the same stale secret must resolve to exactly one
// winner.
type Repository interface {
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Session, error)

	// Create persists a new session. The session must have ID set.
	Create(ctx context.Context, s *domain.Session) error

	// ListRefreshCandidates returns sessions that are active, not revoked, and
	// not expired at the given time — the scan set for refresh matching.
	ListRefreshCandidates(ctx context.Context, now time.Time) ([]*domain.Session, error)

	// ListByUser returns the user's non-revoked sessions ordered by most
	// recent activity first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)

	// Rotate atomically replaces the refresh hash and bumps the token version,
	// guarded by the current hash. Returns false when the guard no longer
	// matches (a concurrent rotation won).
	Rotate(ctx context.Context, id, currentHash, newHash, ip string, at time.Time) (bool, error)

	// Revoke marks the session revoked and inactive. Idempotent; revoking an
	// already-revoked session leaves it unchanged.
	Revoke(ctx context.Context, id, reason string, at time.Time) error

	// RevokeAllByUser revokes every non-revoked session of the user and
	// returns how many were newly revoked.
	RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error)

	// UpdateActivity touches last_activity (and ip when non-empty).
	UpdateActivity(ctx context.Context, id, ip string, at time.Time) error

	// DeleteExpired removes sessions past their expiry, or revoked longer than
	// grace ago, and returns how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time, grace time.Duration) (int64, error)
}
