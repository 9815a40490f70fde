package dep

import (
	"context"
	"time"

	"github.com/cortoforge/cortogen/emit"
)

// cycleDepth is the bound on the cycle-search stack depth. Exceeding it
// is a program-logic error (a malformed graph with pathological nesting),
// not a reportable resolution failure, so it panics rather than erroring.
const cycleDepth = 1024

// DeclareFunc is invoked the first time an item becomes reachable at
// StateDeclared.
type DeclareFunc func(o Object)

// DefineFunc is invoked the first time an item becomes reachable at
// StateValid.
type DefineFunc func(o Object)

// Resolver drives a Graph through a three-phase walk: seed every item
// with no outstanding declare requirement, drain the ready queue firing
// declare/define callbacks as counts reach zero, then for any item still
// undefined search for and break cycles by demoting the lowest-index
// eligible weak edge.
type Resolver struct {
	graph     *Graph
	onDeclare DeclareFunc
	onDefine  DefineFunc

	emitter emit.Emitter
	metrics *Metrics

	ready     []int
	iteration int
	stack     []int
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithEmitter attaches an observability sink; events are emitted for
// every declare, define, cycle-break, and unresolved item.
func WithEmitter(e emit.Emitter) Option {
	return func(r *Resolver) { r.emitter = e }
}

// WithMetrics attaches a Prometheus-backed metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New creates a Resolver over a fresh Graph rooted at root (root may be
// nil if the caller's meta-model has no distinguished root scope).
func New(root Object, onDeclare DeclareFunc, onDefine DefineFunc, opts ...Option) *Resolver {
	r := &Resolver{
		graph:     NewGraph(root),
		onDeclare: onDeclare,
		onDefine:  onDefine,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.emitter == nil {
		r.emitter = emit.NewNullEmitter()
	}
	return r
}

// Insert ensures an item exists for o.
func (r *Resolver) Insert(o Object) {
	r.graph.Insert(o)
}

// Depend installs a directed requirement, per Graph.Depend.
func (r *Resolver) Depend(dependent Object, kind Kind, dependency Object, dependedState RequiredState) {
	r.graph.Depend(dependent, kind, dependency, dependedState)
}

// Walk runs the full three-phase resolution. It returns *ResolutionError,
// wrapping ErrUnresolved, if any item never reaches StateValid; the
// declare/define callbacks that did fire before termination are not
// rolled back — partial output is never rolled back.
func (r *Resolver) Walk(ctx context.Context) error {
	start := time.Now()
	g := r.graph

	if r.metrics != nil {
		r.metrics.observeGraphSize(g.itemCount(), g.edgeCount())
	}

	// Phase 1: seed every item whose declare-count is already zero.
	for i := range g.items {
		if g.items[i].declareCount == 0 {
			r.ready = append(r.ready, i)
		}
	}

	// Phase 2: drain the ready queue.
	r.drain()

	// Phase 3: for every item still undefined, search for and break
	// cycles, then re-drain to propagate whatever that unblocked.
	for idx := range g.items {
		if g.items[idx].defined {
			continue
		}
		r.iteration++
		r.stack = r.stack[:0]
		r.resolveCycles(idx)
		r.drain()
	}

	// Termination: report anything still unresolved.
	var unresolved []Unresolved
	for _, it := range g.items {
		if it.defined {
			continue
		}
		unresolved = append(unresolved, Unresolved{ID: it.object.ID(), Declared: it.declared})
	}

	if r.metrics != nil {
		r.metrics.observeUnresolved(len(unresolved))
		r.metrics.observeDuration(time.Since(start))
	}

	g.items = nil
	g.edges = nil
	g.index = nil

	if len(unresolved) > 0 {
		for _, u := range unresolved {
			r.emitter.Emit(emit.Event{Msg: "warning", ItemID: u.ID, Meta: map[string]interface{}{
				"kind": "dep_unresolved",
				"text": u.String(),
			}})
		}
		_ = r.emitter.Flush(ctx)
		return &ResolutionError{Items: unresolved}
	}

	return r.emitter.Flush(ctx)
}

// drain pops items off the ready queue and fires their declare/define
// transitions until the queue is empty. A single pop can fire both
// transitions when an item's define-count is already zero at the moment
// it declares.
func (r *Resolver) drain() {
	for len(r.ready) > 0 {
		idx := r.ready[0]
		r.ready = r.ready[1:]
		r.emitItem(idx)
	}
}

func (r *Resolver) emitItem(idx int) {
	it := r.graph.items[idx]

	if !it.declared && it.declareCount == 0 {
		it.declared = true
		r.onDeclare(it.object)
		r.emitter.Emit(emit.Event{Msg: "dep_declare", ItemID: it.object.ID()})
		for _, eIdx := range it.onDeclared {
			r.resolveDependency(eIdx)
		}
	}

	if it.declared && !it.defined && it.defineCount == 0 {
		it.defined = true
		r.onDefine(it.object)
		r.emitter.Emit(emit.Event{Msg: "dep_define", ItemID: it.object.ID()})
		for _, eIdx := range it.onDefined {
			r.resolveDependency(eIdx)
		}
	}
}

// resolveDependency discharges one edge against its dependent's count,
// pushing the dependent onto the ready queue once its count hits zero.
func (r *Resolver) resolveDependency(eIdx int) {
	e := r.graph.edges[eIdx]
	if e.processed {
		return
	}
	e.processed = true

	dependent := r.graph.items[e.dependent]
	switch e.kind {
	case KindDeclare:
		dependent.declareCount--
		if dependent.declareCount < 0 {
			panic(negativeRefcountError{id: dependent.object.ID(), field: "declare_count"})
		}
		if dependent.declareCount == 0 {
			r.ready = append(r.ready, e.dependent)
		}
	case KindValid:
		dependent.defineCount--
		if dependent.defineCount < 0 {
			panic(negativeRefcountError{id: dependent.object.ID(), field: "define_count"})
		}
		if dependent.defineCount == 0 {
			r.ready = append(r.ready, e.dependent)
		}
	default:
		panic(invalidKindError{kind: e.kind})
	}
}

// resolveCycles walks item idx's own waiters (the edges that list it as
// the dependency) forward through the wait-chain, recursing into each
// waiter's own waiters in turn. A waiter edge already on the
// cycle-search stack marks a circular wait; the chain from that point to
// the top of the stack is scanned for the lowest-index weak edge whose
// dependency has already declared, and that edge is demoted and
// resolved immediately, breaking the cycle.
func (r *Resolver) resolveCycles(idx int) {
	it := r.graph.items[idx]
	entrySP := len(r.stack)

	if !it.declared {
		for _, eIdx := range it.onDeclared {
			r.resolveDependencyCycles(eIdx)
		}
	}
	if it.declared && !it.defined {
		for _, eIdx := range it.onDefined {
			r.resolveDependencyCycles(eIdx)
		}
	}

	r.stack = r.stack[:entrySP]
}

func (r *Resolver) resolveDependencyCycles(eIdx int) {
	e := r.graph.edges[eIdx]
	if e.marked == r.iteration {
		return
	}

	if pos, onStack := r.positionOnStack(eIdx); onStack {
		r.breakCycle(pos)
		return
	}

	if len(r.stack) >= cycleDepth {
		panic("dep: cycle-search stack exceeded bound")
	}
	r.stack = append(r.stack, eIdx)
	r.resolveCycles(e.dependent)
	e.marked = r.iteration
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Resolver) positionOnStack(eIdx int) (int, bool) {
	for i, s := range r.stack {
		if s == eIdx {
			return i, true
		}
	}
	return 0, false
}

// breakCycle scans the cycle segment stack[from:] for the first
// (lowest-index) weak edge whose dependency has already declared, and
// resolves it, clearing its weak flag so the same edge cannot be demoted
// twice. A cycle with no such edge is left intact; its items surface as
// unresolved when the walk terminates.
func (r *Resolver) breakCycle(from int) {
	for _, eIdx := range r.stack[from:] {
		e := r.graph.edges[eIdx]
		if e.weak && r.graph.items[e.dependency].declared {
			e.weak = false
			r.resolveDependency(eIdx)
			if r.metrics != nil {
				r.metrics.incCycleBroken()
			}
			r.emitter.Emit(emit.Event{Msg: "dep_cycle_break", ItemID: r.graph.items[e.dependent].object.ID()})
			return
		}
	}
}
