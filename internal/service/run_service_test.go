package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
	"clearpoint/internal/service"
	"clearpoint/mocks"
)

func TestRunService_List_EmployeeSeesAllRuns(t *testing.T) {
	mockRepo := new(mocks.MockRunRepo)
	mockRepo.On("List", mock.Anything, 0, 20).
		Return([]domain.Run{{ID: uuid.New()}, {ID: uuid.New()}}, 2, nil)

	svc := service.NewRunService(mockRepo)

	runs, total, err := svc.List(context.Background(), uuid.New(), domain.RoleEmployee, 0, 20)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, 2, total)
	mockRepo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunService_List_ClientSeesOwnRuns(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(mocks.MockRunRepo)
	mockRepo.On("ListByOwner", mock.Anything, userID, 0, 20).
		Return([]domain.Run{{ID: uuid.New(), OwnerUserID: userID}}, 1, nil)

	svc := service.NewRunService(mockRepo)

	runs, total, err := svc.List(context.Background(), userID, domain.RoleClient, 0, 20)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, 1, total)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunService_List_ClampsPagination(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(mocks.MockRunRepo)
	mockRepo.On("ListByOwner", mock.Anything, userID, 0, 20).Return([]domain.Run{}, 0, nil)

	svc := service.NewRunService(mockRepo)

	_, _, err := svc.List(context.Background(), userID, domain.RoleClient, -5, 5000)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
