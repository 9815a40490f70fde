package dep

// Object is the minimal identity contract the resolver needs from a
// meta-model object: stable equality (Go's own == on the concrete type,
// typically a pointer) plus a diagnostic ID. It is defined here, not
// imported from objmodel, so that objmodel can depend on dep's
// RequiredState type without creating an import cycle; objmodel.Object
// satisfies this interface structurally.
type Object interface {
	ID() string
}

// item is the resolver's bookkeeping record for one external object.
// Edges reference items and each other by slice index rather than
// pointer: this keeps the cycle-search stack a small []int and avoids any
// need for reference-counted nodes.
type item struct {
	object       Object
	declared     bool
	defined      bool
	declareCount int
	defineCount  int
	onDeclared   []int // edge indices: edges resolved when this item declares
	onDefined    []int // edge indices: edges resolved when this item defines
}

// edge is a directed requirement: dependent cannot reach the state
// charged by kind until dependency has reached requiredState.
type edge struct {
	kind          Kind
	dependent     int // item index
	dependency    int // item index
	requiredState RequiredState
	weak          bool
	marked        int
	processed     bool
}

// Graph stores items, dependency edges, and per-item pending counts in
// insertion order, so that a deterministic input order yields a
// deterministic iteration order.
type Graph struct {
	items []*item
	index map[Object]int
	edges []*edge
	root  Object
}

// NewGraph creates an empty graph. root, if non-nil, is the meta-model's
// root scope: it is marked both declared and defined the moment it is
// first looked up, so that top-level objects need not depend on it.
func NewGraph(root Object) *Graph {
	return &Graph{
		index: make(map[Object]int),
		root:  root,
	}
}

// lookupOrCreate returns the item index for o, creating a fresh item if
// one does not already exist.
func (g *Graph) lookupOrCreate(o Object) int {
	if idx, ok := g.index[o]; ok {
		return idx
	}

	it := &item{object: o}
	if g.root != nil && o == g.root {
		it.declared = true
		it.defined = true
	}

	idx := len(g.items)
	g.items = append(g.items, it)
	g.index[o] = idx
	return idx
}

// Insert ensures an item exists for o without creating any edges.
func (g *Graph) Insert(o Object) {
	g.lookupOrCreate(o)
}

// Depend installs a directed requirement: dependent cannot reach the
// state charged by kind until dependency has reached dependedState.
// A self-dependency (dependent == dependency) is silently skipped, since
// it is not representable and can never participate in a cycle.
func (g *Graph) Depend(dependentObj Object, kind Kind, dependencyObj Object, dependedState RequiredState) {
	dependentIdx := g.lookupOrCreate(dependentObj)
	dependencyIdx := g.lookupOrCreate(dependencyObj)

	if dependentIdx == dependencyIdx {
		return
	}

	e := &edge{
		kind:          kind,
		dependent:     dependentIdx,
		dependency:    dependencyIdx,
		requiredState: dependedState,
		weak:          dependedState.Weak(),
	}
	eIdx := len(g.edges)
	g.edges = append(g.edges, e)

	dependent := g.items[dependentIdx]
	switch kind {
	case KindDeclare:
		dependent.declareCount++
	case KindValid:
		dependent.defineCount++
	default:
		panic(invalidKindError{kind: kind})
	}

	dependency := g.items[dependencyIdx]
	switch dependedState {
	case RequireDeclared:
		dependency.onDeclared = append(dependency.onDeclared, eIdx)
	case RequireValid, RequireDeclaredOrValid:
		// Weak (DECLARED|VALID) edges are resolved on the VALID
		// transition, same as a hard RequireValid edge.
		dependency.onDefined = append(dependency.onDefined, eIdx)
	default:
		panic(invalidKindError{kind: dependedState})
	}
}

// itemCount reports how many items are currently tracked; used by tests
// and by Metrics.
func (g *Graph) itemCount() int { return len(g.items) }

// edgeCount reports how many edges are currently tracked.
func (g *Graph) edgeCount() int { return len(g.edges) }
