package host

import (
	"context"
	"testing"

	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/objmodel"
)

// fakeObj is a minimal objmodel.Object test double shared by this
// package's tests.
type fakeObj struct {
	id       string
	typeOf   objmodel.Object
	parent   objmodel.Object
	named    bool
	builtin  bool
	external bool
	kind     objmodel.Kind
	members  []objmodel.Member
	marker   objmodel.Object
	params   []objmodel.Object
}

func (o *fakeObj) ID() string                       { return o.id }
func (o *fakeObj) TypeOf() objmodel.Object          { return o.typeOf }
func (o *fakeObj) ParentOf() objmodel.Object        { return o.parent }
func (o *fakeObj) Named() bool                      { return o.named }
func (o *fakeObj) Builtin() bool                    { return o.builtin }
func (o *fakeObj) External() bool                   { return o.external }
func (o *fakeObj) Kind() objmodel.Kind              { return o.kind }
func (o *fakeObj) Options() objmodel.TypeOptions    { return objmodel.TypeOptions{} }
func (o *fakeObj) ParamTypes() []objmodel.Object    { return o.params }
func (o *fakeObj) Base() objmodel.Object            { return nil }
func (o *fakeObj) Members() []objmodel.Member       { return o.members }
func (o *fakeObj) References() []objmodel.Reference { return nil }
func (o *fakeObj) Marker() objmodel.Object          { return o.marker }
func (o *fakeObj) Compare(other objmodel.Object) bool {
	fo, ok := other.(*fakeObj)
	return ok && fo.id == o.id
}

// recordingDriver captures the sequence of declare/define calls a Walk
// produces, by invoking the callbacks it is handed straight through.
type recordingDriver struct {
	run func(ctx context.Context, h *Host) error
}

func (d *recordingDriver) Start(ctx context.Context, h *Host) error {
	return d.run(ctx, h)
}

func TestHostAttributes(t *testing.T) {
	h := New("test", "go")
	if _, ok := h.Attribute("missing"); ok {
		t.Fatalf("expected missing attribute to be absent")
	}
	h.SetAttribute("bootstrap", "true")
	if !h.IsBootstrapAttribute() {
		t.Fatalf("expected bootstrap attribute to be recognized")
	}
}

func TestHostImports(t *testing.T) {
	h := New("test", "go")
	h.Import("a/b")
	h.ImportNested("a/c")
	if got := h.Imports(); len(got) != 1 || got[0] != "a/b" {
		t.Fatalf("unexpected Imports(): %+v", got)
	}
	if got := h.NestedImports(); len(got) != 1 || got[0] != "a/c" {
		t.Fatalf("unexpected NestedImports(): %+v", got)
	}
}

func TestHostRunRequiresDriver(t *testing.T) {
	h := New("test", "go")
	if err := h.Run(context.Background()); err != ErrNoDriver {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}

func TestHostRunWrapsDriverError(t *testing.T) {
	inner := dep.ErrUnresolved
	h := New("test", "go", WithDriver(&recordingDriver{
		run: func(ctx context.Context, h *Host) error { return inner },
	}))
	err := h.Run(context.Background())
	de, match := err.(*DriverError)
	if !match {
		t.Fatalf("expected *DriverError, got %v (%T)", err, err)
	}
	if de.Unwrap() != inner {
		t.Fatalf("expected Unwrap() to return the driver's own error")
	}
}
