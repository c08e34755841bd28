package service

import "errors"

// Sentinel errors for the session manager; callers map them to transport codes.
// Boundary layers should collapse all credential failures into one generic
// response so attackers cannot distinguish expired from revoked from unknown.
var (
	// ErrInvalidToken is returned when an access token fails verification:
	// bad signature, expiry, issuer/audience mismatch, a revoked jti, or a
	// dead backing session.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidRefreshToken is returned when no live session matches the
	// presented refresh secret. No session is mutated on this path.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrAccountDeactivated is returned when the session's owning account is
	// disabled; the matched session is revoked as a side effect.
	ErrAccountDeactivated = errors.New("account deactivated")
)
