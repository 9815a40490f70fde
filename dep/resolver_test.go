package dep

import (
	"context"
	"errors"
	"testing"

	"github.com/cortoforge/cortogen/emit"
)

// testObj is a minimal dep.Object for table-driven tests: identity is the
// pointer itself, ID is used only for diagnostics.
type testObj struct {
	id string
}

func (o *testObj) ID() string { return o.id }

func newObjs(ids ...string) map[string]*testObj {
	m := make(map[string]*testObj, len(ids))
	for _, id := range ids {
		m[id] = &testObj{id: id}
	}
	return m
}

// recorder captures the order in which declare/define fire.
type recorder struct {
	events []string
}

func (r *recorder) declare(o Object) { r.events = append(r.events, "declare:"+o.ID()) }
func (r *recorder) define(o Object)  { r.events = append(r.events, "define:"+o.ID()) }

func TestResolverNoDependencies(t *testing.T) {
	objs := newObjs("a", "b", "c")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	for _, id := range []string{"a", "b", "c"} {
		r.Insert(objs[id])
	}

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	want := []string{"declare:a", "define:a", "declare:b", "define:b", "declare:c", "define:c"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverLinearChain(t *testing.T) {
	objs := newObjs("a", "b", "c")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	r.Insert(objs["c"])
	// a cannot declare until b declares; b cannot declare until c declares.
	r.Depend(objs["a"], KindDeclare, objs["b"], RequireDeclared)
	r.Depend(objs["b"], KindDeclare, objs["c"], RequireDeclared)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	want := []string{"declare:c", "define:c", "declare:b", "define:b", "declare:a", "define:a"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverDiamond(t *testing.T) {
	objs := newObjs("a", "b", "c", "d")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	for _, id := range []string{"a", "b", "c", "d"} {
		r.Insert(objs[id])
	}
	r.Depend(objs["b"], KindDeclare, objs["a"], RequireDeclared)
	r.Depend(objs["c"], KindDeclare, objs["a"], RequireDeclared)
	r.Depend(objs["d"], KindDeclare, objs["b"], RequireDeclared)
	r.Depend(objs["d"], KindDeclare, objs["c"], RequireDeclared)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	// a must come first and d must come last; b and c may interleave but
	// each must fully declare+define before d starts.
	events := rec.events
	if events[0] != "declare:a" || events[1] != "define:a" {
		t.Fatalf("expected a first, got %v", events)
	}
	if events[len(events)-2] != "declare:d" || events[len(events)-1] != "define:d" {
		t.Fatalf("expected d last, got %v", events)
	}
}

func TestResolverWeakCycleIsBroken(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	// Mutual weak reference: each may not be fully defined until the
	// other is at least declared-or-valid.
	r.Depend(objs["a"], KindValid, objs["b"], RequireDeclaredOrValid)
	r.Depend(objs["b"], KindValid, objs["a"], RequireDeclaredOrValid)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		declared, defined := false, false
		for _, e := range rec.events {
			if e == "declare:"+id {
				declared = true
			}
			if e == "define:"+id {
				defined = true
			}
		}
		if !declared || !defined {
			t.Fatalf("expected %s fully declared and defined, events=%v", id, rec.events)
		}
	}
}

func TestResolverHardCycleIsUnresolved(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	// Mutual strict requirement with no weak edge: can never resolve.
	r.Depend(objs["a"], KindDeclare, objs["b"], RequireDeclared)
	r.Depend(objs["b"], KindDeclare, objs["a"], RequireDeclared)

	err := r.Walk(context.Background())
	if err == nil {
		t.Fatalf("expected an unresolved-items error, got nil")
	}
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected errors.Is(err, ErrUnresolved), got %v", err)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if len(resErr.Items) != 2 {
		t.Fatalf("expected 2 unresolved items, got %d: %v", len(resErr.Items), resErr.Items)
	}
}

func TestResolverSelfDependencyIsNoOp(t *testing.T) {
	objs := newObjs("a")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Depend(objs["a"], KindDeclare, objs["a"], RequireDeclared)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	want := []string{"declare:a", "define:a"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverRootIsPrededeclared(t *testing.T) {
	root := &testObj{id: "root"}
	child := &testObj{id: "child"}
	rec := &recorder{}
	r := New(root, rec.declare, rec.define)
	// Top-level objects need not depend on the root explicitly: the
	// builder installs no parent edge against the root in either
	// direction, so its own onDeclared/onDefined lists never need draining.
	r.Insert(root)
	r.Insert(child)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	// The root itself never fires declare/define callbacks: it is
	// pre-seeded as already declared and defined.
	want := []string{"declare:child", "define:child"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverDeclareWaitsForDefinedDependency(t *testing.T) {
	objs := newObjs("a", "b", "c")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	r.Insert(objs["c"])
	// b cannot declare until a is fully defined, c until b is.
	r.Depend(objs["b"], KindDeclare, objs["a"], RequireValid)
	r.Depend(objs["c"], KindDeclare, objs["b"], RequireValid)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	want := []string{"declare:a", "define:a", "declare:b", "define:b", "declare:c", "define:c"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverDuplicateEdgesMustBothResolve(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	r := New(nil, rec.declare, rec.define)
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	// The same requirement installed twice is two edges, and both charge
	// and discharge the counter.
	r.Depend(objs["a"], KindDeclare, objs["b"], RequireValid)
	r.Depend(objs["a"], KindDeclare, objs["b"], RequireValid)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	want := []string{"declare:b", "define:b", "declare:a", "define:a"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}
}

func TestResolverMixedCycleDemotesOnlyWeakEdge(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	emitter := emit.NewBufferedEmitter()
	r := New(nil, rec.declare, rec.define, WithEmitter(emitter))
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	// One strong edge, one weak: the weak edge is the only legal break
	// point, and demoting it must let both items complete.
	r.Depend(objs["a"], KindValid, objs["b"], RequireValid)
	r.Depend(objs["b"], KindValid, objs["a"], RequireDeclaredOrValid)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	want := []string{"declare:a", "declare:b", "define:b", "define:a"}
	if !equalSlices(rec.events, want) {
		t.Fatalf("got %v, want %v", rec.events, want)
	}

	breaks := emitter.HistoryWithFilter("", emit.HistoryFilter{Msg: "dep_cycle_break"})
	if len(breaks) != 1 {
		t.Fatalf("expected exactly 1 cycle break, got %d", len(breaks))
	}
}

func TestResolverWeakCycleBreaksExactlyOnce(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	emitter := emit.NewBufferedEmitter()
	r := New(nil, rec.declare, rec.define, WithEmitter(emitter))
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	r.Depend(objs["a"], KindValid, objs["b"], RequireDeclaredOrValid)
	r.Depend(objs["b"], KindValid, objs["a"], RequireDeclaredOrValid)

	if err := r.Walk(context.Background()); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	breaks := emitter.HistoryWithFilter("", emit.HistoryFilter{Msg: "dep_cycle_break"})
	if len(breaks) != 1 {
		t.Fatalf("expected exactly 1 weak edge demoted, got %d", len(breaks))
	}
}

func TestResolverUnresolvedItemsEmitWarnings(t *testing.T) {
	objs := newObjs("a", "b")
	rec := &recorder{}
	emitter := emit.NewBufferedEmitter()
	r := New(nil, rec.declare, rec.define, WithEmitter(emitter))
	r.Insert(objs["a"])
	r.Insert(objs["b"])
	r.Depend(objs["a"], KindDeclare, objs["b"], RequireValid)
	r.Depend(objs["b"], KindDeclare, objs["a"], RequireValid)

	if err := r.Walk(context.Background()); !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}

	warnings := emitter.HistoryWithFilter("", emit.HistoryFilter{Msg: "warning"})
	if len(warnings) != 2 {
		t.Fatalf("expected a warning per unresolved item, got %d", len(warnings))
	}
}


func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
