package host

import (
	"context"

	"github.com/cortoforge/cortogen/build"
	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/emit"
	"github.com/cortoforge/cortogen/objmodel"
)

// WalkKind selects one of the Generator Host's three walk variants.
type WalkKind int

const (
	// WalkTopLevel visits each root, and one level into its children if
	// ParseScope is set.
	WalkTopLevel WalkKind = iota
	// WalkNoScope visits only the roots themselves.
	WalkNoScope
	// WalkRecursive visits each root and its full subtree.
	WalkRecursive
)

// Walk runs one full generation pass: it collects the objects the given
// variant and the configured RootSpecs select, feeds them through a fresh
// Dep Builder/Resolver pair, and fires onDeclare/onDefine for each
// resolvable item in dependency order. If any walked object turns out to
// be builtin, the resolver is bypassed entirely in favor of the flat
// bootstrap walk.
//
// Walk is re-entrant: a driver callback may call it again (tracked by
// InWalk) to drive a nested generation pass.
func (h *Host) Walk(ctx context.Context, kind WalkKind, onDeclare dep.DeclareFunc, onDefine dep.DefineFunc) error {
	prevInWalk := h.inWalk
	h.inWalk = true
	defer func() { h.inWalk = prevInWalk }()

	objs := h.collect(kind)

	wrappedDeclare := func(o dep.Object) {
		h.setCursor(o)
		onDeclare(o)
	}
	wrappedDefine := func(o dep.Object) {
		h.setCursor(o)
		onDefine(o)
		h.cursor = nil
	}

	resolver := dep.New(h.scopeRoot, wrappedDeclare, wrappedDefine, dep.WithEmitter(h.emitter), dep.WithMetrics(h.metrics))
	builder := build.New(resolver, h.scopeRoot)
	for _, o := range objs {
		builder.Walk(o)
	}

	if builder.Bootstrap() {
		h.emitter.Emit(emit.Event{Msg: "host_bootstrap"})
		return h.bootstrapWalk(objs, onDeclare, onDefine)
	}

	return resolver.Walk(ctx)
}

// WalkSelf runs a no-scope walk (roots only).
func (h *Host) WalkSelf(ctx context.Context, onDeclare dep.DeclareFunc, onDefine dep.DefineFunc) error {
	return h.Walk(ctx, WalkNoScope, onDeclare, onDefine)
}

// WalkSelfAndScope runs a top-level walk (roots plus one level of
// children).
func (h *Host) WalkSelfAndScope(ctx context.Context, onDeclare dep.DeclareFunc, onDefine dep.DefineFunc) error {
	return h.Walk(ctx, WalkTopLevel, onDeclare, onDefine)
}

// WalkRecursively runs a recursive walk (roots and their full subtree).
func (h *Host) WalkRecursively(ctx context.Context, onDeclare dep.DeclareFunc, onDefine dep.DefineFunc) error {
	return h.Walk(ctx, WalkRecursive, onDeclare, onDefine)
}

func (h *Host) setCursor(o dep.Object) {
	if oo, ok := o.(objmodel.Object); ok {
		h.cursor = oo
	}
}

// collect gathers the distinct objects the given variant selects over the
// configured roots, in registration order, applying marker filtering to
// any child below a root.
func (h *Host) collect(kind WalkKind) []objmodel.Object {
	var out []objmodel.Object
	seen := make(map[objmodel.Object]bool)
	add := func(o objmodel.Object) {
		if o == nil || seen[o] {
			return
		}
		seen[o] = true
		out = append(out, o)
	}

	for _, r := range h.roots {
		if r.ParseSelf {
			add(r.Object)
		}
		if !r.ParseScope || kind == WalkNoScope {
			continue
		}
		if kind == WalkTopLevel {
			for _, m := range r.Object.Members() {
				if h.includeChild(m.Type) {
					add(m.Type)
				}
			}
			continue
		}
		h.collectRecursive(r.Object, add)
	}
	return out
}

func (h *Host) collectRecursive(o objmodel.Object, add func(objmodel.Object)) {
	if o == nil {
		return
	}
	for _, m := range o.Members() {
		if !h.includeChild(m.Type) {
			continue
		}
		add(m.Type)
		h.collectRecursive(m.Type, add)
	}
}

// includeChild reports whether a child belongs to this generation: always,
// if the "bootstrap" attribute forces whole-scope inclusion or no marker
// is configured; otherwise only if its Marker() matches.
func (h *Host) includeChild(o objmodel.Object) bool {
	if o == nil {
		return false
	}
	if h.IsBootstrapAttribute() || h.marker == nil {
		return true
	}
	return o.Marker() == h.marker
}

// bootstrapWalk drives on_declare then on_define for every object
// reachable from objs via Members(), ignoring all dependency edges: two
// straight recursive walks, declare then define.
func (h *Host) bootstrapWalk(objs []objmodel.Object, onDeclare dep.DeclareFunc, onDefine dep.DefineFunc) error {
	declared := make(map[objmodel.Object]bool)
	var walkDeclare func(o objmodel.Object)
	walkDeclare = func(o objmodel.Object) {
		if o == nil || declared[o] {
			return
		}
		declared[o] = true
		h.cursor = o
		onDeclare(o)
		for _, m := range o.Members() {
			walkDeclare(m.Type)
		}
	}
	for _, o := range objs {
		walkDeclare(o)
	}

	defined := make(map[objmodel.Object]bool)
	var walkDefine func(o objmodel.Object)
	walkDefine = func(o objmodel.Object) {
		if o == nil || defined[o] {
			return
		}
		defined[o] = true
		h.cursor = o
		onDefine(o)
		for _, m := range o.Members() {
			walkDefine(m.Type)
		}
	}
	for _, o := range objs {
		walkDefine(o)
	}

	h.cursor = nil
	return nil
}

// Run loads the configured driver's Start entry point, letting it drive
// generation via Walk/WalkSelf/WalkSelfAndScope/WalkRecursively, then
// closes every file the run opened.
func (h *Host) Run(ctx context.Context) error {
	if h.driver == nil {
		return ErrNoDriver
	}

	h.emitter.Emit(emit.Event{Msg: "host_walk_start", ItemID: h.name})

	if err := h.driver.Start(ctx, h); err != nil {
		h.emitter.Emit(emit.Event{Msg: "driver_error", Meta: map[string]interface{}{"error": err.Error()}})
		_ = h.emitter.Flush(ctx)
		return &DriverError{Cause: err}
	}

	warnings, closeErr := h.CloseFiles()
	for _, w := range warnings {
		h.emitter.Emit(emit.Event{Msg: "warning", Meta: map[string]interface{}{"kind": "island_mismatch", "island": w}})
	}
	h.emitter.Emit(emit.Event{Msg: "host_walk_end", ItemID: h.name})
	_ = h.emitter.Flush(ctx)
	return closeErr
}
