package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"pillsee-be/internal/dto"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/pkg/pipeline"
	"pillsee-be/pkg/pipeline/assembly"
	"pillsee-be/pkg/session"
)

type IQueryService interface {
	SubmitText(ctx context.Context, request *dto.TextQueryRequest) (*dto.QueryResponse, error)
	SubmitImage(ctx context.Context, request *dto.ImageQueryRequest) (*dto.QueryResponse, error)
}

type queryService struct {
	executor *pipeline.Executor
	sessions *session.Manager
	logger   logger.ILogger
}

func NewQueryService(executor *pipeline.Executor, sessions *session.Manager, log logger.ILogger) IQueryService {
	return &queryService{
		executor: executor,
		sessions: sessions,
		logger:   log,
	}
}

func (s *queryService) SubmitText(ctx context.Context, request *dto.TextQueryRequest) (*dto.QueryResponse, error) {
	answer, err := s.executor.SubmitText(ctx, request.Query)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Record(request.SessionId, strings.TrimSpace(request.Query), renderForHistory(answer))
	return &dto.QueryResponse{Answer: answer, SessionId: sess.Id}, nil
}

func (s *queryService) SubmitImage(ctx context.Context, request *dto.ImageQueryRequest) (*dto.QueryResponse, error) {
	image, err := base64.StdEncoding.DecodeString(request.Image)
	if err != nil {
		return nil, &pipeline.InvalidInputError{Reason: "image is not valid base64"}
	}

	answer, err := s.executor.SubmitImage(ctx, image)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Record(request.SessionId, "[obrázek]", renderForHistory(answer))
	return &dto.QueryResponse{Answer: answer, SessionId: sess.Id}, nil
}

// renderForHistory serializes an answer for the session transcript so a
// conversation view can re-hydrate it without re-running the pipeline.
func renderForHistory(answer *assembly.Answer) string {
	raw, err := json.Marshal(answer)
	if err != nil {
		return answer.Disclaimer
	}
	return string(raw)
}
