package ports

import (
	"context"
	"time"

	"github.com/enic-kz/portal/internal/core/domain"
)

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles local registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// IdentityResolver turns verified claims into the request principal,
// re-validating them against the store. It returns nil when the claims no
// longer describe a usable account.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *SessionClaims) (*domain.Identity, error)
}
