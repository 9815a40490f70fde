// Package objmodel defines the abstract meta-model contract that the
// dependency resolver and builder consume. cortogen never looks at a
// concrete reflection runtime directly; it only requires that runtime's
// objects implement Object.
package objmodel

import "github.com/cortoforge/cortogen/dep"

// Object is an opaque handle into a reflective meta-model: a type, class,
// function, or package. Identity is established by Go's own equality on
// the concrete implementation (objects are typically pointers), so
// Object values can be used directly as map keys or compared with ==.
type Object interface {
	// ID returns a stable, fully-qualified path for the object, used for
	// diagnostics and as the identifier-service fallback.
	ID() string

	// TypeOf returns the object's type, or nil if the object has no type
	// (e.g. the root scope, or a type that is its own type at the root
	// of the bootstrap chain).
	TypeOf() Object

	// ParentOf returns the object's parent scope, or nil if the object
	// is unparented (anonymous) or is the root scope itself.
	ParentOf() Object

	// Named reports whether the object carries a stable name within its
	// parent scope. Unnamed objects are compared structurally (Compare)
	// and deduplicated by the dependency builder.
	Named() bool

	// Builtin reports whether the object is part of the bootstrap type
	// system. Encountering a builtin anywhere in a walk flags the whole
	// run as a bootstrap run (see Resolver semantics).
	Builtin() bool

	// External reports whether the object belongs to a package this run
	// only imports, not generates: its declare/define transitions were
	// already produced by a prior run, so the builder must never install
	// an edge that waits on it.
	External() bool

	// Kind distinguishes the broad category of object, used by the
	// builder to decide which structural edges apply (e.g. only
	// procedures get parameter edges).
	Kind() Kind

	// Options returns configuration that only matters when this object is
	// itself used as another object's type: its type.options.parent_state.
	Options() TypeOptions

	// ParamTypes returns the parameter types of a KindProcedure object, in
	// declaration order. Returns nil for any other Kind.
	ParamTypes() []Object

	// Base returns the base class of a KindClass object, or nil if it has
	// none. Returns nil for any other Kind.
	Base() Object

	// Members returns the object's child members in declaration order
	// (e.g. a class's fields and methods). Returns nil for objects with
	// no members.
	Members() []Member

	// References returns the object's outgoing reference-typed fields in
	// declaration order — the edges the dependency builder's reference
	// walk turns into VALID-on-VALID (or conditional) dependencies.
	References() []Reference

	// Compare reports structural equality against another object of the
	// same kind, used only for objects where Named() is false. Two
	// structurally equal anonymous objects are merged into one item by
	// the builder.
	Compare(other Object) bool

	// Marker returns the generation that produced this object, or nil if
	// it was not produced by any tracked generation. The Generator Host's
	// scope walks use this to decide whether a child belongs to the
	// current run.
	Marker() Object
}

// Kind categorizes an Object for the purposes of dependency-edge
// selection.
type Kind int

const (
	// KindValue is a plain data type: a struct, primitive, or similar.
	KindValue Kind = iota
	// KindProcedure is a function or method; procedures additionally
	// depend on their parameter types and, for methods, their base
	// class.
	KindProcedure
	// KindClass is a type that may have a base and a member scope.
	KindClass
	// KindPackage is a namespace/scope container.
	KindPackage
)

// String renders the Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindProcedure:
		return "procedure"
	case KindClass:
		return "class"
	case KindPackage:
		return "package"
	default:
		return "value"
	}
}

// TypeOptions carries the per-type configuration the Dep Builder consults
// when it installs a parent edge for an instance of that type.
type TypeOptions struct {
	// ParentState is the state a named object's parent must reach before
	// the object may itself be declared.
	ParentState ParentState
}

// ParentState reports the state a named object's parent must have
// reached before the object itself may be declared: the
// type.options.parent_state field. Classes typically require StateValid
// (the parent type must be fully defined before children can be declared
// against it); scopes that accept forward-declared children report
// StateDeclared, which additionally installs the "parent waits on child"
// back-edge.
type ParentState int

const (
	// ParentStateValid requires the parent to be fully defined before a
	// child may be declared.
	ParentStateValid ParentState = iota
	// ParentStateDeclared requires only that the parent be declared; the
	// parent's own definition is additionally blocked on every such
	// child reaching VALID.
	ParentStateDeclared
)

// Member is a named child of an object (a field or nested declaration).
// It is distinct from Reference: the Generator Host's scope walks descend
// through members, but the Dep Builder installs no edges for them; only
// References carry reference semantics.
type Member struct {
	Name string
	Type Object
}

// Reference is an outgoing reference-typed field on an object's value,
// consumed by the Dep Builder's reference walk.
type Reference struct {
	// Target is the referenced object. May be nil (an unset reference),
	// in which case the builder skips it.
	Target Object

	// Embedded marks a non-reference-typed (embedded) member: its
	// dependency is installed without the conditional-state logic.
	Embedded bool

	// RequiredState is the state Target must reach for this edge to be
	// satisfiable, before any conditional flip is applied. Unlike the
	// parent-state config value, a reference edge may legitimately be
	// weak (dep.RequireDeclaredOrValid), so this is the resolver's own
	// three-valued type rather than ParentState.
	RequiredState dep.RequiredState

	// CondExpr, when non-nil, is evaluated against the owning object's
	// value; when it returns false, RequiredState is flipped
	// (Declared<->Valid).
	CondExpr func() bool
}
