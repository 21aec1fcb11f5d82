package access

import "github.com/enic-kz/portal/internal/core/domain"

// Verdict is what a page component should do at render time.
type Verdict string

const (
	// Wait renders nothing while identity is still loading.
	Wait     Verdict = "wait"
	Render   Verdict = "render"
	Navigate Verdict = "navigate"
)

// State is the render-time view of the current identity.
type State struct {
	Identity *domain.Identity
	Loading  bool
}

// GuardResult pairs the verdict with the underlying gate decision.
type GuardResult struct {
	Verdict  Verdict  `json:"verdict"`
	Decision Decision `json:"decision"`
}

// Guard is the render-time counterpart of Gate. It always delegates to the
// same Gate, so both reach the same decision for the same inputs.
type Guard struct {
	gate *Gate
}

// NewGuard returns a Guard sharing gate's route table.
func NewGuard(gate *Gate) *Guard {
	return &Guard{gate: gate}
}

// Evaluate decides what to render for path.
func (g *Guard) Evaluate(s State, path string) GuardResult {
	if s.Loading {
		return GuardResult{Verdict: Wait}
	}
	d := g.gate.Decide(s.Identity, path)
	if d.Allowed() {
		return GuardResult{Verdict: Render, Decision: d}
	}
	return GuardResult{Verdict: Navigate, Decision: d}
}
