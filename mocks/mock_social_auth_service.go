package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clearpoint/internal/service"
)

// MockSocialAuthService is a mock implementation of service.SocialAuthService.
type MockSocialAuthService struct {
	mock.Mock
}

func (m *MockSocialAuthService) GoogleLogin(ctx context.Context, input service.GoogleLoginInput) (*service.GoogleLoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GoogleLoginOutput), args.Error(1)
}
