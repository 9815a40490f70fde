// Package dep implements the dependency graph and resolver: a two-state
// topological walker that orders objects by "declared-before-defined",
// detects cycles, and breaks them by demoting eligible weak edges.
//
// This package has no knowledge of any concrete meta-model; it operates
// purely on Object identity (a minimal structural interface objmodel.Object
// satisfies) plus the edges callers install via Graph.Depend / Resolver.Depend.
package dep

// State is a point in the two-variant declare/define lattice an item
// passes through: none -> Declared -> Valid.
type State int

const (
	// StateDeclared is the first transition an item makes.
	StateDeclared State = iota
	// StateValid (also "defined") is the terminal transition.
	StateValid
)

// String renders the state for diagnostics.
func (s State) String() string {
	if s == StateValid {
		return "VALID"
	}
	return "DECLARED"
}

// RequiredState is the state a dependency must reach before a dependent
// edge is resolvable. It extends State with the union token "either is
// acceptable" (DECLARED|VALID), which marks the edge as weak — a demotion
// candidate when the cycle breaker runs.
type RequiredState int

const (
	// RequireDeclared means the dependency need only be declared.
	RequireDeclared RequiredState = iota
	// RequireValid means the dependency must be fully defined.
	RequireValid
	// RequireDeclaredOrValid is the weak union: either state satisfies
	// the edge. Edges built with this requirement are demotion
	// candidates during cycle breaking.
	RequireDeclaredOrValid
)

// Weak reports whether this requirement is the union token.
func (r RequiredState) Weak() bool {
	return r == RequireDeclaredOrValid
}

// Flip returns the opposite single state, used by the Dep Builder's
// reference walk when a member's conditional state expression evaluates
// to false: DECLARED flips to VALID and vice versa. The weak union has no
// opposite and is returned unchanged.
func (r RequiredState) Flip() RequiredState {
	switch r {
	case RequireDeclared:
		return RequireValid
	case RequireValid:
		return RequireDeclared
	default:
		return r
	}
}

// Kind identifies which counter on the dependent item an edge charges:
// the dependent cannot reach the corresponding state until the edge is
// resolved.
type Kind int

const (
	// KindDeclare charges the dependent's declare-count.
	KindDeclare Kind = iota
	// KindValid charges the dependent's define-count.
	KindValid
)

// String renders the kind for diagnostics.
func (k Kind) String() string {
	if k == KindValid {
		return "VALID"
	}
	return "DECLARED"
}
