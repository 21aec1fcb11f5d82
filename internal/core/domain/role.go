package domain

import (
	"fmt"
	"strings"
)

// Role is the privilege tier of an account. Exactly one role per user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleRootAdmin Role = "root_admin"
)

// roleLevels is the total privilege order. Anything not listed is level 0.
var roleLevels = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
	RoleRootAdmin: 4,
}

// Roles returns every known role, lowest privilege first.
func Roles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin, RoleRootAdmin}
}

// ParseRole maps an external role string onto the closed set.
// Matching ignores case and surrounding whitespace ("ADMIN" → admin).
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleLevels[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the numeric privilege level; 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r satisfies a requirement of required.
// Unknown roles never satisfy anything, including an unknown requirement.
func (r Role) AtLeast(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r.Level() >= required.Level()
}

// Outranks reports whether r is strictly above other.
func (r Role) Outranks(other Role) bool {
	if !r.Valid() {
		return false
	}
	return r.Level() > other.Level()
}

func (r Role) String() string { return string(r) }
