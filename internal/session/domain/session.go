package domain

import "time"

// Session binds a user to their currently valid refresh credential and metadata.
// Exactly one refresh hash is valid at a time; rotation replaces it and bumps
// TokenVersion.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string // bcrypt digest of the current opaque refresh secret
	TokenVersion     int    // monotonic, incremented on every rotation
	UserAgent        string
	IPAddress        string
	IsRevoked        bool // terminal once true
	IsActive         bool
	RevokedAt        *time.Time // nil when not revoked
	RevokedReason    string
	LastActivity     time.Time
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Live reports whether the session can still back credentials at the given time.
func (s *Session) Live(now time.Time) bool {
	return s != nil && s.IsActive && !s.IsRevoked && now.Before(s.ExpiresAt)
}
