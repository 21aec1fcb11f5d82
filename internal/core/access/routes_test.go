package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enic-kz/portal/internal/core/domain"
)

func TestClassify_DefaultRoutes(t *testing.T) {
	c := MustClassifier(DefaultRoutes())

	tests := []struct {
		path    string
		route   string
		minRole domain.Role
		owner   string
	}{
		{path: "/", route: ""},
		{path: "/about", route: ""},
		{path: "/administrator", route: ""},
		{path: "/admin", route: "/admin", minRole: domain.RoleAdmin},
		{path: "/admin/users", route: "/admin", minRole: domain.RoleAdmin},
		{path: "/admin/", route: "/admin", minRole: domain.RoleAdmin},
		{path: "/public/../admin/users", route: "/admin", minRole: domain.RoleAdmin},
		{path: "admin", route: "/admin", minRole: domain.RoleAdmin},
		{path: "/moderator/questions", route: "/moderator", minRole: domain.RoleModerator},
		{path: "/profile", route: "/profile", minRole: domain.RoleUser},
		{path: "/profile/u1/settings", route: "/profile", minRole: domain.RoleUser, owner: "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cl := c.Classify(tt.path)
			assert.Equal(t, tt.route, cl.Route)
			assert.Equal(t, tt.minRole, cl.MinRole)
			assert.Equal(t, tt.owner, cl.OwnerID)
			assert.Equal(t, tt.route != "", cl.Protected())
		})
	}
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	c, err := NewClassifier([]Route{
		{Prefix: "/moderator", MinRole: domain.RoleModerator},
		{Prefix: "/moderator/settings", MinRole: domain.RoleAdmin},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, c.Classify("/moderator/settings/x").MinRole)
	assert.Equal(t, domain.RoleModerator, c.Classify("/moderator/queue").MinRole)
	assert.True(t, c.Classify("/moderator/queue").RequiresAuth)
}

func TestNewClassifier_RejectsBadTables(t *testing.T) {
	tests := map[string][]Route{
		"unknown role": {{Prefix: "/x", MinRole: "owner"}},
		"duplicate":    {{Prefix: "/x", RequiresAuth: true}, {Prefix: "/x/", RequiresAuth: true}},
		"lowered role": {
			{Prefix: "/admin", MinRole: domain.RoleAdmin},
			{Prefix: "/admin/help", MinRole: domain.RoleUser},
		},
		"dropped auth": {
			{Prefix: "/admin", MinRole: domain.RoleAdmin},
			{Prefix: "/admin/public"},
		},
	}

	for name, routes := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewClassifier(routes)
			assert.Error(t, err)
		})
	}
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	c := MustClassifier(DefaultRoutes())
	rs := c.Routes()
	rs[0].MinRole = ""

	assert.NotEqual(t, domain.Role(""), c.Routes()[0].MinRole)
}
