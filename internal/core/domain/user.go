package domain

import "time"

// UserStatus is the account state. Blocked accounts hold no privileges.
type UserStatus string

const (
	StatusActive  UserStatus = "ACTIVE"
	StatusBlocked UserStatus = "BLOCKED"
)

// User models an account as kept by the durable store.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Blocked reports whether the account is blocked.
func (u *User) Blocked() bool {
	return u.Status == StatusBlocked
}

// Identity returns the request-scoped principal for u.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

// Identity is the authenticated principal attached to a single request.
type Identity struct {
	UserID string     `json:"id"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// Blocked reports whether the principal's account is blocked.
func (i *Identity) Blocked() bool {
	return i != nil && i.Status == StatusBlocked
}

// Satisfies reports whether the principal meets the role requirement.
// A nil or blocked principal satisfies nothing.
func (i *Identity) Satisfies(required Role) bool {
	if i == nil || i.Blocked() {
		return false
	}
	return i.Role.AtLeast(required)
}
