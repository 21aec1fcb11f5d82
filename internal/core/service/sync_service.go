package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

// ErrUnknownEvent is returned for notification types the portal does not handle.
var ErrUnknownEvent = errors.New("unknown identity event type")

// SyncService mirrors accounts from the external identity provider.
type SyncService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewSyncService(users ports.UserRepository, logger zerolog.Logger) *SyncService {
	return &SyncService{users: users, logger: logger}
}

// Apply persists one identity event. Applying the same event twice leaves the
// store unchanged.
func (s *SyncService) Apply(ctx context.Context, event ports.IdentityEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("identity event without user id: %w", domain.ErrUserNotFound)
	}

	switch event.Type {
	case ports.EventUserCreated, ports.EventUserUpdated:
		return s.upsert(ctx, event)
	case ports.EventUserDeleted:
		if err := s.users.Delete(ctx, event.UserID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("delete synced user: %w", err)
		}
		s.logger.Info().Str("user_id", event.UserID).Msg("synced user deleted")
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}

// upsert creates the account with its initial role or refreshes the email of
// an existing one. Role changes after creation go through promote and demote.
func (s *SyncService) upsert(ctx context.Context, event ports.IdentityEvent) error {
	role := s.initialRole(event)

	now := time.Now().UTC()
	user := &domain.User{
		ID:        event.UserID,
		Email:     normalizeEmail(event.Email),
		Role:      role,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("upsert synced user: %w", err)
	}

	s.logger.Info().
		Str("user_id", event.UserID).
		Str("type", event.Type).
		Msg("synced user upserted")
	return nil
}

// initialRole parses role metadata for a new account. Unknown values fall back
// to user and the top role is never granted from metadata.
func (s *SyncService) initialRole(event ports.IdentityEvent) domain.Role {
	role, err := domain.ParseRole(event.Role)
	switch {
	case err != nil:
		if strings.TrimSpace(event.Role) != "" {
			s.logger.Warn().Str("user_id", event.UserID).Str("role", event.Role).Msg("unrecognised role metadata, defaulting to user")
		}
		return domain.RoleUser
	case role == domain.RoleRootAdmin:
		s.logger.Warn().Str("user_id", event.UserID).Msg("root_admin metadata ignored, defaulting to user")
		return domain.RoleUser
	}
	return role
}
