// Package service implements the session lifecycle state machine: creation,
// refresh with single-use rotation, verification, revocation, and cleanup.
// All truth lives in the durable store; a Manager holds only configuration
// and handles, so one instance is shared by every request worker.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"authcore/internal/audit"
	"authcore/internal/identity"
	revocationdomain "authcore/internal/revocation/domain"
	revocationrepo "authcore/internal/revocation/repository"
	"authcore/internal/security"
	"authcore/internal/session/domain"
	sessionrepo "authcore/internal/session/repository"
	"authcore/internal/telemetry"
	telemetrydomain "authcore/internal/telemetry/domain"
)

// RequestContext carries optional per-request client metadata. Both fields may be empty.
type RequestContext struct {
	UserAgent string
	IP        string
}

// TokenPair is the credential set returned by CreateSession and RefreshTokens.
// RefreshToken is the opaque secret; only its hash is persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresAt    time.Time // session expiry, not access token expiry
}

// Manager orchestrates sessions and the credentials derived from them.
// Construct one at process start and share it; it holds no mutable state.
type Manager struct {
	sessions   sessionrepo.Repository
	registry   revocationrepo.Registry
	users      identity.Directory
	hasher     *security.Hasher
	tokens     *security.TokenProvider
	auditLog   audit.AuditLogger
	events     telemetry.EventEmitter
	sessionTTL time.Duration
	grace      time.Duration
}

// NewManager returns a Manager with the given dependencies. auditLog and
// events may be nil; both degrade to no-ops.
func NewManager(
	sessions sessionrepo.Repository,
	registry revocationrepo.Registry,
	users identity.Directory,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	auditLog audit.AuditLogger,
	events telemetry.EventEmitter,
	sessionTTL, grace time.Duration,
) *Manager {
	if events == nil {
		events = telemetry.Noop{}
	}
	if sessionTTL <= 0 {
		sessionTTL = 168 * time.Hour
	}
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &Manager{
		sessions:   sessions,
		registry:   registry,
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		auditLog:   auditLog,
		events:     events,
		sessionTTL: sessionTTL,
		grace:      grace,
	}
}

// CreateSession starts a new session for userID and returns its credentials.
// The session row is persisted before any token is issued: a store failure
// means no credentials exist anywhere.
func (m *Manager) CreateSession(ctx context.Context, userID string, claims security.IdentityClaims, rc RequestContext) (*TokenPair, error) {
	claims.UserID = userID

	secret, err := security.GenerateSecret(security.DefaultSecretLen)
	if err != nil {
		return nil, fmt.Errorf("generate refresh secret: %w", err)
	}
	hash, err := m.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash refresh secret: %w", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:               security.GenerateID(),
		UserID:           userID,
		RefreshTokenHash: hash,
		TokenVersion:     1,
		UserAgent:        rc.UserAgent,
		IPAddress:        rc.IP,
		IsActive:         true,
		LastActivity:     now,
		CreatedAt:        now,
		ExpiresAt:        now.Add(m.sessionTTL),
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	accessToken, _, _, err := m.tokens.Issue(claims, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	m.logEvent(ctx, claims.TenantID, userID, "session.create", sess.ID, rc.IP, "")
	m.emit(userID, sess.ID, claims.TenantID, telemetrydomain.EventSessionCreated)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: secret,
		SessionID:    sess.ID,
		ExpiresAt:    sess.ExpiresAt,
	}, nil
}

// RefreshTokens exchanges a refresh secret for a new credential pair, rotating
// the secret. The session is found by verifying the presented secret against
// every live session's hash — never by a client-supplied session id. The scan
// is O(live sessions) on purpose: no index is ever built on a value derivable
// from the secret.
//
// Rotation is a compare-and-swap on the stored hash, so two concurrent calls
// with the same secret resolve to one winner; the loser fails with
// ErrInvalidRefreshToken and is expected to retry with the winner's token.
func (m *Manager) RefreshTokens(ctx context.Context, refreshSecret string, rc RequestContext) (*TokenPair, error) {
	if refreshSecret == "" {
		return nil, ErrInvalidRefreshToken
	}
	now := time.Now().UTC()

	candidates, err := m.sessions.ListRefreshCandidates(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list refresh candidates: %w", err)
	}

	var match *domain.Session
	for _, c := range candidates {
		if m.hasher.Verify(refreshSecret, c.RefreshTokenHash) {
			match = c
			break
		}
	}
	if match == nil {
		// Stale (already rotated) secrets land here too: they no longer match
		// any stored hash, so the request fails and nothing is mutated.
		m.logEvent(ctx, "", "", "session.refresh_denied", "none", rc.IP, "no session matched the presented secret")
		m.emit("", "", "", telemetrydomain.EventRefreshDenied)
		return nil, ErrInvalidRefreshToken
	}

	user, err := m.users.GetByID(ctx, match.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.Active {
		if err := m.sessions.Revoke(ctx, match.ID, "account deactivated", now); err != nil {
			log.Printf("session: failed to revoke session for deactivated user: %v", err)
		}
		m.logEvent(ctx, "", match.UserID, "session.refresh_denied", match.ID, rc.IP, "account deactivated")
		m.emit(match.UserID, match.ID, "", telemetrydomain.EventSessionRevoked)
		return nil, ErrAccountDeactivated
	}

	newSecret, err := security.GenerateSecret(security.DefaultSecretLen)
	if err != nil {
		return nil, fmt.Errorf("generate refresh secret: %w", err)
	}
	newHash, err := m.hasher.Hash(newSecret)
	if err != nil {
		return nil, fmt.Errorf("hash refresh secret: %w", err)
	}

	won, err := m.sessions.Rotate(ctx, match.ID, match.RefreshTokenHash, newHash, rc.IP, now)
	if err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	if !won {
		// A concurrent refresh rotated first; the presented secret is spent.
		return nil, ErrInvalidRefreshToken
	}

	accessToken, _, _, err := m.tokens.Issue(security.IdentityClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, match.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	m.logEvent(ctx, "", user.ID, "session.refresh", match.ID, rc.IP, "")
	m.emit(user.ID, match.ID, "", telemetrydomain.EventSessionRefreshed)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newSecret,
		SessionID:    match.ID,
		ExpiresAt:    match.ExpiresAt,
	}, nil
}

// VerifyAccessToken validates signature, expiry, issuer, and audience, then
// applies the dual check: the jti must not be revoked and the backing session
// must still be live. Revoking a session therefore kills its outstanding
// access tokens immediately.
func (m *Manager) VerifyAccessToken(ctx context.Context, token string) (*security.AccessClaims, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := m.registry.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation registry: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}

	sess, err := m.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Live(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: session not live", ErrInvalidToken)
	}

	return claims, nil
}

// RevokeSession marks the session revoked and inactive. Idempotent: revoking
// an already-revoked session changes nothing.
func (m *Manager) RevokeSession(ctx context.Context, sessionID, reason string) error {
	now := time.Now().UTC()
	if err := m.sessions.Revoke(ctx, sessionID, reason, now); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	m.logEvent(ctx, "", "", "session.revoke", sessionID, "", reason)
	m.emit("", sessionID, "", telemetrydomain.EventSessionRevoked)
	return nil
}

// RevokeAllUserSessions revokes every non-revoked session for the user and
// returns how many were newly revoked. Used on password change or compromise
// response.
func (m *Manager) RevokeAllUserSessions(ctx context.Context, userID, reason string) (int64, error) {
	now := time.Now().UTC()
	count, err := m.sessions.RevokeAllByUser(ctx, userID, reason, now)
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	m.logEvent(ctx, "", userID, "session.revoke_all", fmt.Sprintf("count=%d", count), "", reason)
	m.emit(userID, "", "", telemetrydomain.EventBulkRevoked)
	return count, nil
}

// RevokeAccessToken records the token's jti in the revocation registry so
// verification rejects it until its natural expiry. expiresAt must be copied
// from the token so the entry prunes itself.
func (m *Manager) RevokeAccessToken(ctx context.Context, jti, userID, reason string, expiresAt time.Time) error {
	entry := &revocationdomain.RevokedAccessToken{
		JTI:       jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now().UTC(),
	}
	if err := m.registry.Add(ctx, entry); err != nil {
		return fmt.Errorf("add revocation entry: %w", err)
	}
	m.logEvent(ctx, "", userID, "token.revoke", jti, "", reason)
	m.emit(userID, "", "", telemetrydomain.EventTokenRevoked)
	return nil
}

// GetUserSessions returns the user's non-revoked sessions ordered by most
// recent activity, for self-service "active sessions" views.
func (m *Manager) GetUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	return m.sessions.ListByUser(ctx, userID)
}

// UpdateSessionActivity touches last_activity and ip for the session.
// Best-effort: failures are logged and swallowed, never returned.
func (m *Manager) UpdateSessionActivity(ctx context.Context, sessionID string, rc RequestContext) {
	if err := m.sessions.UpdateActivity(ctx, sessionID, rc.IP, time.Now().UTC()); err != nil {
		log.Printf("session: failed to update activity for %s: %v", sessionID, err)
	}
}

func (m *Manager) logEvent(ctx context.Context, tenantID, userID, action, resource, ip, metadata string) {
	if m.auditLog != nil {
		m.auditLog.LogEvent(ctx, tenantID, userID, action, resource, ip, metadata)
	}
}

func (m *Manager) emit(userID, sessionID, tenantID, eventType string) {
	telemetry.EmitAsync(m.events, &telemetrydomain.Event{
		UserID:    userID,
		SessionID: sessionID,
		TenantID:  tenantID,
		EventType: eventType,
		Source:    "session-manager",
		CreatedAt: time.Now().UTC(),
	})
}
