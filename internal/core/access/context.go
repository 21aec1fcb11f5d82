package access

import (
	"context"

	"github.com/enic-kz/portal/internal/core/domain"
)

type identityKey struct{}

// WithIdentity attaches the request principal to ctx.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the request principal, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityKey{}).(*domain.Identity)
	return id
}
