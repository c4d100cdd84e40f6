package port

import (
	"context"

	"github.com/google/uuid"

	"clearpoint/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByProviderID(ctx context.Context, providerUserID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// RunRepository defines the contract for cleaning-run persistence.
type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Run, int, error)
	List(ctx context.Context, offset, limit int) ([]domain.Run, int, error)
}
