package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

// IdentityService resolves session claims into the current principal.
type IdentityService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewIdentityService(users ports.UserRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{users: users, logger: logger}
}

// Resolve loads the account named by claims. The stored role and status are
// authoritative; a token issued before a demotion or block carries no extra
// privilege. Deleted accounts and unknown roles resolve to nil.
func (s *IdentityService) Resolve(ctx context.Context, claims *ports.SessionClaims) (*domain.Identity, error) {
	if claims == nil || claims.UserID == "" {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if !user.Role.Valid() {
		s.logger.Warn().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("stored role not recognised")
		return nil, nil
	}
	if claims.Role != "" && claims.Role != string(user.Role) {
		s.logger.Debug().
			Str("user_id", user.ID).
			Str("token_role", claims.Role).
			Str("stored_role", string(user.Role)).
			Msg("session role is stale")
	}

	return user.Identity(), nil
}
