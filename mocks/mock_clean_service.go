package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"clearpoint/internal/service"
)

// MockCleanService is a mock implementation of service.CleanService.
type MockCleanService struct {
	mock.Mock
}

func (m *MockCleanService) Clean(ctx context.Context, ownerID uuid.UUID, input service.CleanInput) (*service.CleanOutput, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CleanOutput), args.Error(1)
}
