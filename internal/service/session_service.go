package service

import (
	"context"

	"pillsee-be/internal/dto"
	"pillsee-be/internal/pkg/serverutils"
	"pillsee-be/pkg/session"
)

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionService struct {
	sessions *session.Manager
}

func NewSessionService(sessions *session.Manager) ISessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sess := s.sessions.Create()
	return &dto.CreateSessionResponse{SessionId: sess.Id}, nil
}

func (s *sessionService) Show(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, found := s.sessions.Load(sessionID)
	if !found {
		return nil, serverutils.NotFound("session not found or expired")
	}

	messages := make([]dto.SessionMessageResponse, 0, len(sess.Messages))
	for _, message := range sess.Messages {
		messages = append(messages, dto.SessionMessageResponse{
			Role:      message.Role,
			Content:   message.Content,
			CreatedAt: message.CreatedAt,
		})
	}

	return &dto.SessionResponse{
		SessionId:    sess.Id,
		Messages:     messages,
		QueryCount:   sess.QueryCount,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	s.sessions.Clear(sessionID)
	return nil
}
