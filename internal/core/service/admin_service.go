package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
	"github.com/enic-kz/portal/internal/pkg/metrics"
)

// AdminService implements user management. The acting principal is always
// re-read from the store: the stored role and status win over whatever the
// session token claimed.
type AdminService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewAdminService(users ports.UserRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, logger: logger}
}

// ListUsers returns the accounts visible to actor.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error) {
	current, err := loadActor(ctx, s.users, actor)
	if err != nil {
		return nil, s.audit(access.ActionListUsers, actor, "", err)
	}

	role, err := access.UserListScope(current)
	if err != nil {
		return nil, s.audit(access.ActionListUsers, current, "", err)
	}

	users, err := s.users.List(ctx, ports.UserListFilter{Role: role})
	if err != nil {
		return nil, s.audit(access.ActionListUsers, current, "", fmt.Errorf("list users: %w", err))
	}

	s.audit(access.ActionListUsers, current, "", nil)
	return users, nil
}

// Promote raises a plain user to admin.
func (s *AdminService) Promote(ctx context.Context, actor *domain.Identity, userID string) (*domain.User, error) {
	current, target, err := s.prepare(ctx, actor, access.ActionPromote, userID, false)
	if err != nil {
		return nil, s.audit(access.ActionPromote, orIdentity(current, actor), userID, err)
	}

	if err := access.CanPromote(current, target.Identity()); err != nil {
		return nil, s.audit(access.ActionPromote, current, userID, err)
	}

	updated, err := s.users.CompareAndSetRole(ctx, userID, domain.RoleUser, access.PromotedRole)
	if err != nil {
		return nil, s.audit(access.ActionPromote, current, userID, wrapStore("promote", err))
	}

	s.audit(access.ActionPromote, current, userID, nil)
	return updated, nil
}

// Demote lowers an admin back to a plain user. Reserved to the top role.
func (s *AdminService) Demote(ctx context.Context, actor *domain.Identity, adminID string) (*domain.User, error) {
	current, target, err := s.prepare(ctx, actor, access.ActionDemote, adminID, true)
	if err != nil {
		return nil, s.audit(access.ActionDemote, orIdentity(current, actor), adminID, err)
	}

	if err := access.CanDemote(current, target.Identity()); err != nil {
		return nil, s.audit(access.ActionDemote, current, adminID, err)
	}

	updated, err := s.users.CompareAndSetRole(ctx, adminID, domain.RoleAdmin, access.DemotedRole)
	if err != nil {
		return nil, s.audit(access.ActionDemote, current, adminID, wrapStore("demote", err))
	}

	s.audit(access.ActionDemote, current, adminID, nil)
	return updated, nil
}

// ToggleBlock flips the target between ACTIVE and BLOCKED.
func (s *AdminService) ToggleBlock(ctx context.Context, actor *domain.Identity, userID string) (*domain.User, error) {
	current, target, err := s.prepare(ctx, actor, access.ActionToggleBlock, userID, true)
	if err != nil {
		return nil, s.audit(access.ActionToggleBlock, orIdentity(current, actor), userID, err)
	}

	if err := access.CanModerate(current, target.Identity(), access.ActionToggleBlock); err != nil {
		return nil, s.audit(access.ActionToggleBlock, current, userID, err)
	}

	next := domain.StatusBlocked
	if target.Blocked() {
		next = domain.StatusActive
	}

	updated, err := s.users.SetStatus(ctx, userID, next)
	if err != nil {
		return nil, s.audit(access.ActionToggleBlock, current, userID, wrapStore("toggle block", err))
	}

	s.logger.Info().
		Str("actor_id", current.UserID).
		Str("target_id", userID).
		Str("status", string(next)).
		Msg("user status changed")
	s.audit(access.ActionToggleBlock, current, userID, nil)
	return updated, nil
}

// Delete removes the target account.
func (s *AdminService) Delete(ctx context.Context, actor *domain.Identity, userID string) error {
	current, target, err := s.prepare(ctx, actor, access.ActionDelete, userID, true)
	if err != nil {
		return s.audit(access.ActionDelete, orIdentity(current, actor), userID, err)
	}

	if err := access.CanModerate(current, target.Identity(), access.ActionDelete); err != nil {
		return s.audit(access.ActionDelete, current, userID, err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return s.audit(access.ActionDelete, current, userID, wrapStore("delete", err))
	}

	return s.audit(access.ActionDelete, current, userID, nil)
}

// prepare re-validates the actor, applies the actor-only checks and loads
// the target. Role checks run before the target lookup so that callers
// without the privilege cannot probe which accounts exist.
func (s *AdminService) prepare(
	ctx context.Context,
	actor *domain.Identity,
	action access.Action,
	targetID string,
	noSelf bool,
) (*domain.Identity, *domain.User, error) {
	current, err := loadActor(ctx, s.users, actor)
	if err != nil {
		return nil, nil, err
	}

	if noSelf && current.UserID == targetID {
		return current, nil, domain.ErrSelfAction
	}

	if err := access.Require(current, action); err != nil {
		return current, nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return current, nil, wrapStore("find target", err)
	}
	return current, target, nil
}

// audit logs and counts the outcome of a privileged action and returns err.
func (s *AdminService) audit(action access.Action, actor *domain.Identity, targetID string, err error) error {
	return auditAction(s.logger, action, actor, targetID, err)
}

func auditAction(logger zerolog.Logger, action access.Action, actor *domain.Identity, targetID string, err error) error {
	reason := domain.Reason(err)
	metrics.ActionsTotal.WithLabelValues(string(action), outcomeLabel(reason)).Inc()

	var ev *zerolog.Event
	switch reason {
	case "ok":
		ev = logger.Info()
	case "internal":
		ev = logger.Error().Err(err)
	default:
		ev = logger.Warn().Str("reason", reason)
	}

	if actor != nil {
		ev = ev.Str("actor_id", actor.UserID).Str("actor_role", string(actor.Role))
	}
	if targetID != "" {
		ev = ev.Str("target_id", targetID)
	}
	ev.Str("action", string(action)).Msg("audit")

	return err
}

func outcomeLabel(reason string) string {
	if reason == "internal" {
		return "error"
	}
	return reason
}

// loadActor returns the stored view of actor. A principal whose account no
// longer exists is treated as unauthenticated.
func loadActor(ctx context.Context, users ports.UserRepository, actor *domain.Identity) (*domain.Identity, error) {
	if actor == nil || actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	u, err := users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	return u.Identity(), nil
}

func orIdentity(stored, claimed *domain.Identity) *domain.Identity {
	if stored != nil {
		return stored
	}
	return claimed
}

// wrapStore annotates unexpected store errors and passes domain errors through.
func wrapStore(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrConflict) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
