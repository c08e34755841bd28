// Package identity exposes the minimal user lookup the session core consumes.
// The full identity provider lives outside this module.
package identity

import "context"

// User is the minimal identity view needed by session operations. Email and
// Role feed the claims of access tokens minted at refresh time.
type User struct {
	ID     string
	Email  string
	Role   string
	Active bool
}

// Directory looks up users by id. GetByID returns nil when the user is unknown;
// errors are reserved for lookup failures.
type Directory interface {
	GetByID(ctx context.Context, userID string) (*User, error)
}
