package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"authcore/internal/session/domain"
)

// PostgresRepository persists sessions in the sessions table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, refresh_token_hash, token_version, user_agent, ip_address,
	is_revoked, is_active, revoked_at, revoked_reason, last_activity, created_at, expires_at`

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.UserID, s.RefreshTokenHash, s.TokenVersion,
		nullString(s.UserAgent), nullString(s.IPAddress),
		s.IsRevoked, s.IsActive, timeToNullTime(s.RevokedAt), nullString(s.RevokedReason),
		s.LastActivity, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// ListRefreshCandidates returns sessions that are active, not revoked, and not expired at now.
func (r *PostgresRepository) ListRefreshCandidates(ctx context.Context, now time.Time) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE is_active AND NOT is_revoked AND expires_at > $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListByUser returns the user's non-revoked sessions, most recent activity first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = $1 AND NOT is_revoked
		ORDER BY last_activity DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// Rotate replaces the refresh hash and bumps token_version in a single UPDATE
// guarded by the current hash. The guard is the serialization point for
// concurrent refreshes: the loser matches zero rows and gets (false, nil).
func (r *PostgresRepository) Rotate(ctx context.Context, id, currentHash, newHash, ip string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET refresh_token_hash = $3,
		    token_version = token_version + 1,
		    last_activity = $4,
		    ip_address = COALESCE(NULLIF($5, ''), ip_address)
		WHERE id = $1 AND refresh_token_hash = $2
		  AND is_active AND NOT is_revoked`,
		id, currentHash, newHash, at, ip)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Revoke marks the session revoked and inactive. Already-revoked rows are untouched,
// so revoked_at and revoked_reason keep their original values.
func (r *PostgresRepository) Revoke(ctx context.Context, id, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET is_revoked = TRUE, is_active = FALSE, revoked_at = $3, revoked_reason = $2
		WHERE id = $1 AND NOT is_revoked`,
		id, nullString(reason), at)
	return err
}

// RevokeAllByUser revokes every non-revoked session of the user and returns the count.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID, reason string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET is_revoked = TRUE, is_active = FALSE, revoked_at = $3, revoked_reason = $2
		WHERE user_id = $1 AND NOT is_revoked`,
		userID, nullString(reason), at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateActivity touches last_activity and, when ip is non-empty, ip_address.
func (r *PostgresRepository) UpdateActivity(ctx context.Context, id, ip string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET last_activity = $2, ip_address = COALESCE(NULLIF($3, ''), ip_address)
		WHERE id = $1`,
		id, at, ip)
	return err
}

// DeleteExpired removes sessions past expiry or revoked longer than grace ago.
// Predicate-only delete; safe under concurrent sweepers.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time, grace time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1
		   OR (is_revoked AND revoked_at IS NOT NULL AND revoked_at < $2)`,
		now, now.Add(-grace))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var userAgent, ip, reason sql.NullString
	var revokedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.UserID, &s.RefreshTokenHash, &s.TokenVersion, &userAgent, &ip,
		&s.IsRevoked, &s.IsActive, &revokedAt, &reason, &s.LastActivity, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	s.UserAgent = userAgent.String
	s.IPAddress = ip.String
	s.RevokedReason = reason.String
	s.RevokedAt = nullTimeToPtr(revokedAt)
	return &s, nil
}

func collectSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
