package repository

import (
	"context"
	"time"

	"authcore/internal/revocation/domain"
)

// Registry defines persistence for revoked access token ids. Contains is
// consulted on every token verification.
type Registry interface {
	// Add records a revoked token id. Adding the same jti twice is a no-op.
	Add(ctx context.Context, t *domain.RevokedAccessToken) error

	// Contains reports whether jti has been revoked.
	Contains(ctx context.Context, jti string) (bool, error)

	// DeleteExpired prunes entries whose original token expiry has passed and
	// returns how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
