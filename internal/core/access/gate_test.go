package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enic-kz/portal/internal/core/domain"
)

func identity(id string, role domain.Role) *domain.Identity {
	return &domain.Identity{UserID: id, Role: role, Status: domain.StatusActive}
}

func newTestGate() *Gate {
	return NewGate(MustClassifier(DefaultRoutes()), GateOptions{})
}

func TestGate_Decide(t *testing.T) {
	g := newTestGate()
	blockedAdmin := identity("a9", domain.RoleAdmin)
	blockedAdmin.Status = domain.StatusBlocked

	tests := []struct {
		name     string
		id       *domain.Identity
		path     string
		outcome  Outcome
		location string
		reason   string
	}{
		{name: "public anonymous", path: "/news", outcome: Allow, reason: "public"},
		{name: "anonymous admin", path: "/admin/users", outcome: RedirectLogin, location: "/login?from=%2Fadmin%2Fusers", reason: "unauthenticated"},
		{name: "user on admin", id: identity("u1", domain.RoleUser), path: "/admin", outcome: RedirectHome, location: "/", reason: "insufficient_role"},
		{name: "moderator on admin", id: identity("m1", domain.RoleModerator), path: "/admin", outcome: RedirectHome, location: "/", reason: "insufficient_role"},
		{name: "admin on admin", id: identity("a1", domain.RoleAdmin), path: "/admin", outcome: Allow, reason: "granted"},
		{name: "root on moderator", id: identity("r1", domain.RoleRootAdmin), path: "/moderator", outcome: Allow, reason: "granted"},
		{name: "blocked admin", id: blockedAdmin, path: "/admin", outcome: RedirectHome, location: "/", reason: "blocked"},
		{name: "own profile", id: identity("u1", domain.RoleUser), path: "/profile/u1", outcome: Allow, reason: "granted"},
		{name: "other profile", id: identity("u1", domain.RoleUser), path: "/profile/u2", outcome: RedirectHome, location: "/", reason: "not_owner"},
		{name: "moderator other profile", id: identity("m1", domain.RoleModerator), path: "/profile/u2", outcome: Allow, reason: "granted"},
		{name: "unknown role", id: identity("x1", "superuser"), path: "/profile", outcome: RedirectHome, location: "/", reason: "insufficient_role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Decide(tt.id, tt.path)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.location, d.Location)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestGate_CustomOptions(t *testing.T) {
	g := NewGate(MustClassifier(DefaultRoutes()), GateOptions{LoginPath: "/sign-in", HomePath: "/kz", ReturnParam: "next"})

	assert.Equal(t, "/sign-in?next=%2Fprofile", g.Decide(nil, "/profile").Location)
	assert.Equal(t, "/kz", g.Decide(identity("u1", domain.RoleUser), "/admin").Location)
}

func TestGuard_AgreesWithGate(t *testing.T) {
	g := newTestGate()
	guard := NewGuard(g)

	ids := []*domain.Identity{
		nil,
		identity("u1", domain.RoleUser),
		identity("m1", domain.RoleModerator),
		identity("a1", domain.RoleAdmin),
		identity("r1", domain.RoleRootAdmin),
	}
	paths := []string{"/", "/admin", "/admin/users", "/moderator", "/profile", "/profile/u1", "/profile/u2"}

	for _, id := range ids {
		for _, p := range paths {
			want := g.Decide(id, p)
			got := guard.Evaluate(State{Identity: id}, p)

			assert.Equal(t, want, got.Decision, "%v %s", id, p)
			if want.Allowed() {
				assert.Equal(t, Render, got.Verdict)
			} else {
				assert.Equal(t, Navigate, got.Verdict)
			}
		}
	}
}

func TestGuard_WaitsWhileLoading(t *testing.T) {
	guard := NewGuard(newTestGate())

	res := guard.Evaluate(State{Loading: true}, "/admin")
	assert.Equal(t, Wait, res.Verdict)
	assert.Equal(t, Decision{}, res.Decision)
}
