package handler

import "github.com/enic-kz/portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt string       `json:"expires_at,omitempty"`
	User      *domain.User `json:"user,omitempty"`
}

// --- Admin ---

type promoteRequest struct {
	UserID string `json:"userID" validate:"required"`
}

type demoteRequest struct {
	AdminID string `json:"adminID" validate:"required"`
}

type deleteUserRequest struct {
	UserID string `json:"userID" validate:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Questions ---

type askRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required,max=8000"`
}

type questionsResponse struct {
	Questions []*domain.Question `json:"questions"`
}

// --- Access ---

type accessCheckResponse struct {
	Path     string           `json:"path"`
	Verdict  string           `json:"verdict"`
	Outcome  string           `json:"outcome"`
	Location string           `json:"location,omitempty"`
	Reason   string           `json:"reason"`
	Identity *domain.Identity `json:"identity,omitempty"`
}
