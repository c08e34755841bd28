package domain

import "time"

// Lifecycle event types emitted by the session core.
const (
	EventSessionCreated   = "session.created"
	EventSessionRefreshed = "session.refreshed"
	EventSessionRevoked   = "session.revoked"
	EventBulkRevoked      = "sessions.bulk_revoked"
	EventTokenRevoked     = "token.revoked"
	EventRefreshDenied    = "refresh.denied"
	EventCleanupCompleted = "cleanup.completed"
)

// Event is an auth lifecycle event (optional user/session/tenant scope).
// Metadata is free-form JSON; it must never contain token or secret material.
type Event struct {
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Metadata  []byte    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
