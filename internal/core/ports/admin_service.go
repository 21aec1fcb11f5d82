package ports

import (
	"context"

	"github.com/enic-kz/portal/internal/core/domain"
)

// AdminService performs user management on behalf of an actor. Each
// method re-validates the actor against the store before acting.
type AdminService interface {
	ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error)
	Promote(ctx context.Context, actor *domain.Identity, userID string) (*domain.User, error)
	Demote(ctx context.Context, actor *domain.Identity, adminID string) (*domain.User, error)
	ToggleBlock(ctx context.Context, actor *domain.Identity, userID string) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Identity, userID string) error
}
