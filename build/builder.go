// Package build implements the Dep Builder: it walks an objmodel.Object
// meta-model recursively and translates structural facts (a type that must
// be defined before its value is declared, a parameter that need only be declared, a
// parent scope, a reference-typed field) into dep.Resolver edges.
package build

import (
	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/objmodel"
)

// Resolver is the subset of *dep.Resolver the builder depends on. Builder
// is tested against a recording fake satisfying this interface, and a real
// run wires in a *dep.Resolver directly.
type Resolver interface {
	Insert(o dep.Object)
	Depend(dependent dep.Object, kind dep.Kind, dependency dep.Object, dependedState dep.RequiredState)
}

// Builder walks a meta-model and populates a Resolver with the items and
// structural edges described below. A Builder is single-use: construct one
// per walk via New.
type Builder struct {
	resolver  Resolver
	root      objmodel.Object
	anon      *AnonymousTable
	visited   map[objmodel.Object]bool
	bootstrap bool
}

// New creates a Builder that populates resolver. root is the meta-model's
// top scope, if any; it is excluded from parent-edge installation, since a
// root has no parent other than itself to wait on.
func New(resolver Resolver, root objmodel.Object) *Builder {
	return &Builder{
		resolver: resolver,
		root:     root,
		anon:     NewAnonymousTable(),
		visited:  make(map[objmodel.Object]bool),
	}
}

// Bootstrap reports whether any builtin object was encountered during the
// walk. When true, the bootstrap path applies: the caller (Generator Host)
// must bypass the resolver entirely and drive declare/define directly via
// two flat recursive walks instead of calling Resolver.Walk.
func (b *Builder) Bootstrap() bool { return b.bootstrap }

// Walk recursively processes o and everything it structurally depends on:
// its type, (for procedures) its parameter types and base class, its named
// parent, and its reference-typed fields. Each distinct object — after
// anonymous-object canonicalization — is processed at most once.
func (b *Builder) Walk(o objmodel.Object) {
	b.walk(o)
}

func (b *Builder) walk(o objmodel.Object) {
	if o == nil {
		return
	}
	o = b.anon.Canonicalize(o)
	if b.visited[o] {
		return
	}
	b.visited[o] = true

	if o.Builtin() {
		// A builtin anywhere flags the whole run bootstrap; edges for
		// this object are not installed, but it still needs an item so a
		// direct declare/define walk can find it.
		b.bootstrap = true
		b.resolver.Insert(o)
		return
	}

	if t := o.TypeOf(); t != nil {
		if mustParse(t) {
			b.resolver.Depend(o, dep.KindDeclare, t, dep.RequireValid)
		}
		b.walk(t)
	}

	if o.Kind() == objmodel.KindProcedure {
		for _, p := range o.ParamTypes() {
			if p == nil {
				continue
			}
			if mustParse(p) {
				// Weak: parameter types need only be declared before the
				// procedure itself may declare.
				b.resolver.Depend(o, dep.KindDeclare, p, dep.RequireDeclaredOrValid)
			}
			b.walk(p)
		}
		if parent := o.ParentOf(); parent != nil && parent.Kind() == objmodel.KindClass {
			if base := parent.Base(); base != nil {
				if mustParse(base) {
					b.resolver.Depend(o, dep.KindDeclare, base, dep.RequireValid)
				}
				b.walk(base)
			}
		}
	}

	if o.Named() {
		if parent := o.ParentOf(); parent != nil && parent != b.root {
			state := objmodel.ParentStateValid
			if t := o.TypeOf(); t != nil {
				state = t.Options().ParentState
			}
			required := dep.RequireValid
			if state == objmodel.ParentStateDeclared {
				required = dep.RequireDeclared
			}
			b.resolver.Depend(o, dep.KindDeclare, parent, required)
			if state == objmodel.ParentStateDeclared {
				// Defining the parent must wait for every such child to
				// reach VALID.
				b.resolver.Depend(parent, dep.KindValid, o, dep.RequireValid)
			}
			b.walk(parent)
		}
	}

	// Insert o unconditionally as a guard, after the structural edges
	// above but before the reference walk below.
	b.resolver.Insert(o)

	for _, ref := range o.References() {
		b.walkReference(o, ref)
	}
}

// walkReference installs the VALID-on-<required> edge for one
// reference-typed field, applying anonymous dedup and the conditional-state
// flip a false CondExpr triggers.
func (b *Builder) walkReference(owner objmodel.Object, ref objmodel.Reference) {
	target := ref.Target
	if !mustParse(target) {
		return
	}
	target = b.anon.Canonicalize(target)

	required := ref.RequiredState
	if !ref.Embedded && ref.CondExpr != nil && !ref.CondExpr() {
		required = required.Flip()
	}

	b.resolver.Depend(owner, dep.KindValid, target, required)
	b.walk(target)
}

// mustParse reports whether o needs to be walked and depended upon at all:
// builtins short-circuit the whole run (handled separately) and external
// objects belong to an already-generated package, so neither needs an
// edge installed against it.
func mustParse(o objmodel.Object) bool {
	return o != nil && !o.Builtin() && !o.External()
}
