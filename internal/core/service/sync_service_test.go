package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

func TestSyncService_CreatedAndUpdated(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSyncService(repo, zerolog.Nop())
	ctx := context.Background()

	created := ports.IdentityEvent{Type: ports.EventUserCreated, UserID: "ext_1", Email: "New@Example.kz", Role: "MODERATOR"}
	if err := svc.Apply(ctx, created); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	u := repo.get("ext_1")
	if u == nil {
		t.Fatalf("user not created")
	}
	if u.Role != domain.RoleModerator || u.Email != "new@example.kz" {
		t.Fatalf("unexpected user %+v", u)
	}

	// Replaying the same event changes nothing.
	if err := svc.Apply(ctx, created); err != nil {
		t.Fatalf("replay returned error: %v", err)
	}
	if got := repo.get("ext_1"); got.Role != domain.RoleModerator {
		t.Fatalf("replay changed role to %s", got.Role)
	}

	updated := ports.IdentityEvent{Type: ports.EventUserUpdated, UserID: "ext_1", Email: "changed@example.kz", Role: ""}
	if err := svc.Apply(ctx, updated); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	got := repo.get("ext_1")
	if got.Email != "changed@example.kz" {
		t.Fatalf("expected email refresh, got %s", got.Email)
	}
	if got.Role != domain.RoleModerator {
		t.Fatalf("update without role metadata changed role to %s", got.Role)
	}
}

func TestSyncService_UnknownRoleDefaultsToUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSyncService(repo, zerolog.Nop())

	err := svc.Apply(context.Background(), ports.IdentityEvent{Type: ports.EventUserCreated, UserID: "ext_2", Role: "SUPERUSER"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := repo.get("ext_2").Role; got != domain.RoleUser {
		t.Fatalf("expected user, got %s", got)
	}
}

func TestSyncService_RootAdminMetadataNotGranted(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSyncService(repo, zerolog.Nop())

	err := svc.Apply(context.Background(), ports.IdentityEvent{Type: ports.EventUserCreated, UserID: "ext_6", Role: "root_admin"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := repo.get("ext_6").Role; got != domain.RoleUser {
		t.Fatalf("expected user, got %s", got)
	}
}

func TestSyncService_UpdateKeepsRoleAndStatus(t *testing.T) {
	repo := newStubUserRepo(blocked(account("ext_3", domain.RoleUser)))
	svc := NewSyncService(repo, zerolog.Nop())

	err := svc.Apply(context.Background(), ports.IdentityEvent{Type: ports.EventUserUpdated, UserID: "ext_3", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	got := repo.get("ext_3")
	if got.Role != domain.RoleUser {
		t.Fatalf("role metadata must not change an existing account, got %s", got.Role)
	}
	if !got.Blocked() {
		t.Fatalf("sync must not unblock an account")
	}
}

func TestSyncService_UpdateAfterPromote(t *testing.T) {
	repo := newStubUserRepo(account("root1", domain.RoleRootAdmin))
	syncer := NewSyncService(repo, zerolog.Nop())
	admin := NewAdminService(repo, zerolog.Nop())
	ctx := context.Background()

	if err := syncer.Apply(ctx, ports.IdentityEvent{Type: ports.EventUserCreated, UserID: "ext_1", Email: "a@example.kz"}); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if _, err := admin.Promote(ctx, as("root1", domain.RoleRootAdmin), "ext_1"); err != nil {
		t.Fatalf("Promote returned error: %v", err)
	}

	for _, role := range []string{"", "user", "root_admin"} {
		event := ports.IdentityEvent{Type: ports.EventUserUpdated, UserID: "ext_1", Email: "b@example.kz", Role: role}
		if err := syncer.Apply(ctx, event); err != nil {
			t.Fatalf("update %q returned error: %v", role, err)
		}
		if got := repo.get("ext_1").Role; got != domain.RoleAdmin {
			t.Fatalf("update with role %q changed promoted role to %s", role, got)
		}
	}
}

func TestSyncService_Deleted(t *testing.T) {
	repo := newStubUserRepo(account("ext_4", domain.RoleUser))
	svc := NewSyncService(repo, zerolog.Nop())
	event := ports.IdentityEvent{Type: ports.EventUserDeleted, UserID: "ext_4"}

	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if repo.get("ext_4") != nil {
		t.Fatalf("user not deleted")
	}
	if err := svc.Apply(context.Background(), event); err != nil {
		t.Fatalf("repeat delete returned error: %v", err)
	}
}

func TestSyncService_UnknownType(t *testing.T) {
	svc := NewSyncService(newStubUserRepo(), zerolog.Nop())

	err := svc.Apply(context.Background(), ports.IdentityEvent{Type: "session.created", UserID: "ext_5"})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}
