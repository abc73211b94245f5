package dto

import "time"

type SessionMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	SessionId    string                   `json:"session_id"`
	Messages     []SessionMessageResponse `json:"messages"`
	QueryCount   int                      `json:"query_count"`
	CreatedAt    time.Time                `json:"created_at"`
	LastActivity time.Time                `json:"last_activity"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}
