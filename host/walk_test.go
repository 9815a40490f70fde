package host

import (
	"context"
	"testing"

	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/objmodel"
)

func TestHostWalkFiresDeclareBeforeDefine(t *testing.T) {
	base := &fakeObj{id: "pkg.Base", named: true, kind: objmodel.KindClass}
	derived := &fakeObj{id: "pkg.Derived", named: true, kind: objmodel.KindValue, typeOf: base}
	pkg := &fakeObj{id: "pkg", named: true, kind: objmodel.KindPackage, members: []objmodel.Member{
		{Name: "Base", Type: base},
		{Name: "Derived", Type: derived},
	}}

	h := New("test", "go", WithScopeRoot(pkg))
	h.AddRoot(RootSpec{Object: pkg, ParseSelf: false, ParseScope: true})

	var declareOrder, defineOrder []string
	err := h.WalkRecursively(context.Background(),
		func(o dep.Object) { declareOrder = append(declareOrder, o.ID()) },
		func(o dep.Object) { defineOrder = append(defineOrder, o.ID()) },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(declareOrder) != 2 || len(defineOrder) != 2 {
		t.Fatalf("expected both objects to declare and define, got declare=%v define=%v", declareOrder, defineOrder)
	}
	if declareOrder[0] != base.id {
		t.Fatalf("expected base to declare first, got %v", declareOrder)
	}
}

func TestHostWalkMarkerFiltersChildren(t *testing.T) {
	gen := &fakeObj{id: "gen"}
	inRun := &fakeObj{id: "pkg.InRun", named: true, marker: gen}
	stale := &fakeObj{id: "pkg.Stale", named: true, marker: &fakeObj{id: "old-gen"}}
	pkg := &fakeObj{id: "pkg", named: true, kind: objmodel.KindPackage, members: []objmodel.Member{
		{Name: "InRun", Type: inRun},
		{Name: "Stale", Type: stale},
	}}

	h := New("test", "go", WithMarker(gen))
	h.AddRoot(RootSpec{Object: pkg, ParseScope: true})

	var declared []string
	err := h.WalkSelfAndScope(context.Background(),
		func(o dep.Object) { declared = append(declared, o.ID()) },
		func(o dep.Object) {},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(declared) != 1 || declared[0] != inRun.id {
		t.Fatalf("expected only the current-generation child, got %v", declared)
	}
}

func TestHostWalkBootstrapBypassesResolver(t *testing.T) {
	builtin := &fakeObj{id: "int", builtin: true}
	value := &fakeObj{id: "pkg.V", named: true, typeOf: builtin}
	pkg := &fakeObj{id: "pkg", named: true, kind: objmodel.KindPackage, members: []objmodel.Member{
		{Name: "V", Type: value},
	}}

	h := New("test", "go")
	h.AddRoot(RootSpec{Object: pkg, ParseScope: true})

	var declared, defined []string
	err := h.WalkRecursively(context.Background(),
		func(o dep.Object) { declared = append(declared, o.ID()) },
		func(o dep.Object) { defined = append(defined, o.ID()) },
	)
	if err != nil {
		t.Fatalf("unexpected error from bootstrap walk: %v", err)
	}
	if len(declared) != 1 || declared[0] != value.id {
		t.Fatalf("expected bootstrap walk to declare the single configured value, got %v", declared)
	}
	if len(defined) != 1 || defined[0] != value.id {
		t.Fatalf("expected bootstrap walk to define the single configured value, got %v", defined)
	}
}
