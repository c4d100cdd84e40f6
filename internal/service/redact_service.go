package service

import (
	"context"

	"clearpoint/internal/domain"
	"clearpoint/internal/redact"
)

// RedactService applies upload limits around the redaction engine.
type RedactService interface {
	Redact(ctx context.Context, input redact.Input) (*redact.Output, error)
}

type redactService struct {
	engine   *redact.Engine
	maxBytes int64
}

// NewRedactService creates a new RedactService.
func NewRedactService(engine *redact.Engine, maxBytes int64) RedactService {
	return &redactService{engine: engine, maxBytes: maxBytes}
}

func (s *redactService) Redact(_ context.Context, input redact.Input) (*redact.Output, error) {
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return s.engine.Redact(input)
}
