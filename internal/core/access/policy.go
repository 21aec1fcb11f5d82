package access

import (
	"github.com/enic-kz/portal/internal/core/domain"
)

// Action names a privileged operation for audit logs and metrics.
type Action string

const (
	ActionListUsers     Action = "list_users"
	ActionPromote       Action = "promote"
	ActionDemote        Action = "demote"
	ActionToggleBlock   Action = "toggle_block"
	ActionDelete        Action = "delete_user"
	ActionListQuestions Action = "list_questions"
	ActionAsk           Action = "ask_question"
	ActionAnswer        Action = "answer_question"
)

// MinRole is the lowest role that may attempt each action. Target rules
// below may still refuse it.
var MinRole = map[Action]domain.Role{
	ActionListUsers:     domain.RoleModerator,
	ActionPromote:       domain.RoleAdmin,
	ActionDemote:        domain.RoleRootAdmin,
	ActionToggleBlock:   domain.RoleModerator,
	ActionDelete:        domain.RoleModerator,
	ActionListQuestions: domain.RoleUser,
	ActionAsk:           domain.RoleUser,
	ActionAnswer:        domain.RoleModerator,
}

// PromotedRole is the role a successful promotion grants.
const PromotedRole = domain.RoleAdmin

// DemotedRole is the role a successful demotion leaves behind.
const DemotedRole = domain.RoleUser

// Require checks the actor-only part of an action.
func Require(actor *domain.Identity, action Action) error {
	if actor == nil || actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if actor.Blocked() {
		return domain.ErrUserBlocked
	}
	min, ok := MinRole[action]
	if !ok || !actor.Role.AtLeast(min) {
		return domain.ErrForbidden
	}
	return nil
}

// UserListScope returns the role filter for listing accounts: moderators
// only see plain users, admins and above see everyone ("").
func UserListScope(actor *domain.Identity) (domain.Role, error) {
	if err := Require(actor, ActionListUsers); err != nil {
		return "", err
	}
	if actor.Role == domain.RoleModerator {
		return domain.RoleUser, nil
	}
	return "", nil
}

// CanPromote checks that actor may raise target to PromotedRole.
func CanPromote(actor, target *domain.Identity) error {
	if err := Require(actor, ActionPromote); err != nil {
		return err
	}
	switch {
	case target.Role == domain.RoleUser:
		return nil
	case target.Role.AtLeast(PromotedRole):
		return domain.ErrConflict
	default:
		return domain.ErrForbidden
	}
}

// CanDemote checks that actor may lower target back to DemotedRole.
// Only the top role demotes, never itself, and never another top role.
func CanDemote(actor, target *domain.Identity) error {
	if err := selfCheck(actor, target); err != nil {
		return err
	}
	if err := Require(actor, ActionDemote); err != nil {
		return err
	}
	switch target.Role {
	case domain.RoleAdmin:
		return nil
	case DemotedRole:
		return domain.ErrConflict
	default:
		return domain.ErrForbidden
	}
}

// CanModerate checks block/unblock and delete: the actor must strictly
// outrank the target and may never act on itself.
func CanModerate(actor, target *domain.Identity, action Action) error {
	if err := selfCheck(actor, target); err != nil {
		return err
	}
	if err := Require(actor, action); err != nil {
		return err
	}
	if !actor.Role.Outranks(target.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// CanAnswer checks that actor may answer questions.
func CanAnswer(actor *domain.Identity) error {
	return Require(actor, ActionAnswer)
}

// QuestionScope returns the owner filter for listing questions: plain users
// only see their own, moderators and above see all ("").
func QuestionScope(actor *domain.Identity) (string, error) {
	if err := Require(actor, ActionListQuestions); err != nil {
		return "", err
	}
	if actor.Role.AtLeast(domain.RoleModerator) {
		return "", nil
	}
	return actor.UserID, nil
}

func selfCheck(actor, target *domain.Identity) error {
	if actor == nil || actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if target != nil && actor.UserID == target.UserID {
		return domain.ErrSelfAction
	}
	return nil
}
