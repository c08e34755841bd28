package repository

import (
	"context"
	"database/sql"
	"time"

	"authcore/internal/revocation/domain"
)

// PostgresRegistry persists revoked token ids in the revoked_access_tokens table.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry returns a registry that uses the given db for persistence.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// Add records a revoked token id. Conflicting inserts for the same jti are ignored.
func (r *PostgresRegistry) Add(ctx context.Context, t *domain.RevokedAccessToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, user_id, reason, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.UserID, sql.NullString{String: t.Reason, Valid: t.Reason != ""}, t.ExpiresAt, t.RevokedAt)
	return err
}

// Contains reports whether jti has been revoked.
func (r *PostgresRegistry) Contains(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_access_tokens WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteExpired prunes entries whose original token expiry has passed.
// Predicate-only delete; safe under concurrent sweepers.
func (r *PostgresRegistry) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_access_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
