package identity

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresDirectory reads the users table owned by the identity service.
// The session core only reads the columns it needs for refresh decisions
// and claim minting; it never writes to the table.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory returns a Directory backed by the given db.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// GetByID returns the user for userID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (d *PostgresDirectory) GetByID(ctx context.Context, userID string) (*User, error) {
	var u User
	err := d.db.QueryRowContext(ctx,
		`SELECT id, email, role, is_active FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Email, &u.Role, &u.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
