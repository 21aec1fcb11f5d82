// Package access holds the access-control model of the portal: which page
// paths require which role, the navigation decision for a request, and the
// authorization rules applied before every privileged mutation.
//
// The route table is defined once here and shared by the edge gate and the
// in-page guard endpoint so the two can never disagree.
package access

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/enic-kz/portal/internal/core/domain"
)

// Route classifies every path at or below Prefix.
type Route struct {
	Prefix       string
	RequiresAuth bool
	// MinRole is empty when any authenticated principal is enough.
	MinRole domain.Role
	// OwnerScoped marks Prefix/{id} paths reachable only by the owner of id
	// or by a moderator and above.
	OwnerScoped bool
}

// Classification is the requirement that applies to a concrete path.
type Classification struct {
	Route        string
	RequiresAuth bool
	MinRole      domain.Role
	// OwnerID is the resource owner for owner-scoped paths, if present.
	OwnerID string
}

// Protected reports whether the path needs any identity at all.
func (c Classification) Protected() bool {
	return c.RequiresAuth || c.MinRole != ""
}

// DefaultRoutes is the portal's page protection table.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: "/admin", RequiresAuth: true, MinRole: domain.RoleAdmin},
		{Prefix: "/moderator", RequiresAuth: true, MinRole: domain.RoleModerator},
		{Prefix: "/profile", RequiresAuth: true, MinRole: domain.RoleUser, OwnerScoped: true},
	}
}

// Classifier resolves paths against a static route table.
type Classifier struct {
	// sorted longest prefix first
	routes []Route
}

// NewClassifier validates the table and returns a Classifier. A nested
// prefix may raise its parent's requirement but never lower it.
func NewClassifier(routes []Route) (*Classifier, error) {
	rs := make([]Route, 0, len(routes))
	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		r.Prefix = cleanPath(r.Prefix)
		if r.MinRole != "" && !r.MinRole.Valid() {
			return nil, fmt.Errorf("route %s: %w", r.Prefix, domain.ErrInvalidRole)
		}
		if r.MinRole != "" {
			r.RequiresAuth = true
		}
		if _, dup := seen[r.Prefix]; dup {
			return nil, fmt.Errorf("route %s: duplicate prefix", r.Prefix)
		}
		seen[r.Prefix] = struct{}{}
		rs = append(rs, r)
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return len(rs[i].Prefix) > len(rs[j].Prefix)
	})

	for i, child := range rs {
		for _, parent := range rs[i+1:] {
			if !hasPathPrefix(child.Prefix, parent.Prefix) {
				continue
			}
			if parent.RequiresAuth && !child.RequiresAuth {
				return nil, fmt.Errorf("route %s: drops authentication required by %s", child.Prefix, parent.Prefix)
			}
			if parent.MinRole != "" && (child.MinRole == "" || child.MinRole.Level() < parent.MinRole.Level()) {
				return nil, fmt.Errorf("route %s: lowers role required by %s", child.Prefix, parent.Prefix)
			}
		}
	}

	return &Classifier{routes: rs}, nil
}

// MustClassifier is NewClassifier for static tables known to be valid.
func MustClassifier(routes []Route) *Classifier {
	c, err := NewClassifier(routes)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the requirement for p. Unmatched paths are public.
func (c *Classifier) Classify(p string) Classification {
	p = cleanPath(p)
	for _, r := range c.routes {
		if !hasPathPrefix(p, r.Prefix) {
			continue
		}
		cl := Classification{
			Route:        r.Prefix,
			RequiresAuth: r.RequiresAuth,
			MinRole:      r.MinRole,
		}
		if r.OwnerScoped {
			cl.OwnerID = ownerSegment(p, r.Prefix)
		}
		return cl
	}
	return Classification{}
}

// Routes returns a copy of the table, longest prefix first.
func (c *Classifier) Routes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// hasPathPrefix matches whole segments: /admin covers /admin/x but not /administrator.
func hasPathPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}

// ownerSegment returns the first segment after prefix ("/profile/u1/x" → "u1").
func ownerSegment(p, prefix string) string {
	rest := strings.TrimPrefix(p[len(prefix):], "/")
	if rest == "" {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// cleanPath normalises p so that "/admin/../x" cannot slip past a prefix.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}
