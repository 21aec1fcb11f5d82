package ports

import "context"

// Identity provider notification types.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is a verified notification from the external identity
// provider about an account.
type IdentityEvent struct {
	// DeliveryID identifies the delivery for deduplication.
	DeliveryID string
	Type       string
	UserID     string
	Email      string
	// Role is the raw role metadata; it is parsed, never trusted verbatim.
	Role string
}

// SyncService mirrors identity-provider accounts into the user store.
type SyncService interface {
	Apply(ctx context.Context, event IdentityEvent) error
}
