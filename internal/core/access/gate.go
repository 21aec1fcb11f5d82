package access

import (
	"net/url"

	"github.com/enic-kz/portal/internal/core/domain"
)

// Outcome is the result of a navigation check.
type Outcome string

const (
	Allow         Outcome = "allow"
	RedirectLogin Outcome = "redirect_login"
	RedirectHome  Outcome = "redirect_home"
)

// Decision is what the gate tells the transport to do with a request.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	// Location is set for redirects.
	Location string `json:"location,omitempty"`
	// Reason is a short code for logs and metrics.
	Reason string `json:"reason"`
}

// Allowed reports whether the request may proceed unmodified.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// GateOptions configures redirect targets.
type GateOptions struct {
	LoginPath string
	HomePath  string
	// ReturnParam carries the original path on login redirects.
	ReturnParam string
}

// Gate makes the allow/redirect decision for page navigation. It holds no
// per-request state and never mutates anything.
type Gate struct {
	classifier *Classifier
	opts       GateOptions
}

// NewGate returns a Gate over the given classifier.
func NewGate(classifier *Classifier, opts GateOptions) *Gate {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.HomePath == "" {
		opts.HomePath = "/"
	}
	if opts.ReturnParam == "" {
		opts.ReturnParam = "from"
	}
	return &Gate{classifier: classifier, opts: opts}
}

// Classifier exposes the shared route table.
func (g *Gate) Classifier() *Classifier { return g.classifier }

// Decide classifies path and checks it against id, which may be nil.
func (g *Gate) Decide(id *domain.Identity, path string) Decision {
	cl := g.classifier.Classify(path)
	if !cl.Protected() {
		return Decision{Outcome: Allow, Reason: "public"}
	}

	if id == nil || id.UserID == "" {
		return Decision{Outcome: RedirectLogin, Location: g.loginURL(path), Reason: "unauthenticated"}
	}

	if id.Blocked() {
		return g.home("blocked")
	}

	if cl.MinRole != "" && !id.Satisfies(cl.MinRole) {
		return g.home("insufficient_role")
	}

	if cl.OwnerID != "" && cl.OwnerID != id.UserID && !id.Satisfies(domain.RoleModerator) {
		return g.home("not_owner")
	}

	return Decision{Outcome: Allow, Reason: "granted"}
}

func (g *Gate) home(reason string) Decision {
	return Decision{Outcome: RedirectHome, Location: g.opts.HomePath, Reason: reason}
}

func (g *Gate) loginURL(from string) string {
	q := url.Values{}
	q.Set(g.opts.ReturnParam, cleanPath(from))
	return g.opts.LoginPath + "?" + q.Encode()
}
