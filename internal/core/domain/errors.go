package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("state already satisfies the requested transition")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidRequest     = errors.New("invalid request")
)

// ErrSelfAction and ErrUserBlocked are forbidden outcomes that callers
// need to tell apart; both match ErrForbidden via errors.Is.
var (
	ErrSelfAction  = &forbiddenError{reason: "self_action", msg: "action not allowed on own account"}
	ErrUserBlocked = &forbiddenError{reason: "blocked", msg: "account is blocked"}
)

type forbiddenError struct {
	reason string
	msg    string
}

func (e *forbiddenError) Error() string { return e.msg }

// Reason is the machine-readable code surfaced to API clients.
func (e *forbiddenError) Reason() string { return e.reason }

func (e *forbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// Reason returns the short machine-readable code for err, used in API
// error envelopes, audit logs, and metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrSelfAction):
		return "self_action"
	case errors.Is(err, ErrUserBlocked):
		return "blocked"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrQuestionNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrUserExists):
		return "conflict"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}
