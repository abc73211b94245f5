package entity

import "time"

const (
	SessionRoleUser      = "user"
	SessionRoleAssistant = "assistant"
)

// SessionMessage is one exchanged message in an anonymous browsing session.
type SessionMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the rolling conversation window of a single anonymous client.
// It carries no identifying information (no IP, no device id) and lives only
// in process memory; expiry is evaluated lazily on the next access.
type Session struct {
	Id           string           `json:"session_id"`
	Messages     []SessionMessage `json:"messages"`
	QueryCount   int              `json:"query_count"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActivity time.Time        `json:"last_activity"`
}
