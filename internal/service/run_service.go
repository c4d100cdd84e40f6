package service

import (
	"context"

	"github.com/google/uuid"

	"clearpoint/internal/domain"
	"clearpoint/internal/port"
)

// RunService lists run history. Employees see every run; clients see only
// their own.
type RunService interface {
	List(ctx context.Context, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Run, int, error)
}

type runService struct {
	runRepo port.RunRepository
}

// NewRunService creates a new RunService.
func NewRunService(runRepo port.RunRepository) RunService {
	return &runService{runRepo: runRepo}
}

func (s *runService) List(ctx context.Context, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Run, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if role == domain.RoleEmployee {
		return s.runRepo.List(ctx, offset, limit)
	}
	return s.runRepo.ListByOwner(ctx, userID, offset, limit)
}
