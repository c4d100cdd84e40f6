package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clearpoint/internal/redact"
)

// MockRedactService is a mock implementation of service.RedactService.
type MockRedactService struct {
	mock.Mock
}

func (m *MockRedactService) Redact(ctx context.Context, input redact.Input) (*redact.Output, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redact.Output), args.Error(1)
}
