package ports

import (
	"context"

	"github.com/enic-kz/portal/internal/core/domain"
)

// UserListFilter narrows ListUsers. Empty fields do not filter.
type UserListFilter struct {
	Role   domain.Role
	Status domain.UserStatus
}

// UserRepository is the durable user store.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns users newest first.
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// Upsert creates the account for id or refreshes its email. Role,
	// status and password are only written when the record is first inserted.
	Upsert(ctx context.Context, user *domain.User) error
	// CompareAndSetRole changes the role only while it still equals from.
	// It returns domain.ErrConflict when the stored role differs and
	// domain.ErrUserNotFound when id is unknown.
	CompareAndSetRole(ctx context.Context, id string, from, to domain.Role) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
