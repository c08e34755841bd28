package domain

import "time"

// RevokedAccessToken marks a single access token id as invalid before its
// natural expiry. ExpiresAt is copied from the token so the record prunes
// itself once the token would have died anyway.
type RevokedAccessToken struct {
	JTI       string
	UserID    string
	Reason    string
	ExpiresAt time.Time
	RevokedAt time.Time
}
