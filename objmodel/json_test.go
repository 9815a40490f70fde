package objmodel

import (
	"strings"
	"testing"

	"github.com/cortoforge/cortogen/dep"
)

const sampleGraph = `{
  "root": "pkg",
  "objects": [
    {"id": "int", "kind": "value", "builtin": true},
    {"id": "pkg", "kind": "package"},
    {"id": "pkg.Widget", "kind": "class", "parent": "pkg",
     "members": [{"name": "count", "type": "int"}]},
    {"id": "pkg.Widget.Set", "kind": "procedure", "parent": "pkg.Widget",
     "params": ["int"],
     "references": [{"target": "pkg.Widget", "required": "valid"}]}
  ]
}`

func TestLoadGraphResolvesReferences(t *testing.T) {
	nodes, root, err := LoadGraph(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root == nil || root.ID() != "pkg" {
		t.Fatalf("expected root pkg, got %v", root)
	}

	widget := nodes["pkg.Widget"]
	if widget.Kind() != KindClass {
		t.Fatalf("expected KindClass, got %v", widget.Kind())
	}
	if widget.ParentOf() == nil || widget.ParentOf().ID() != "pkg" {
		t.Fatalf("expected parent pkg, got %v", widget.ParentOf())
	}
	if len(widget.Members()) != 1 || widget.Members()[0].Name != "count" {
		t.Fatalf("unexpected members: %+v", widget.Members())
	}

	set := nodes["pkg.Widget.Set"]
	if set.Kind() != KindProcedure {
		t.Fatalf("expected KindProcedure, got %v", set.Kind())
	}
	if len(set.ParamTypes()) != 1 || set.ParamTypes()[0].ID() != "int" {
		t.Fatalf("unexpected params: %+v", set.ParamTypes())
	}
	refs := set.References()
	if len(refs) != 1 || refs[0].Target.ID() != "pkg.Widget" || refs[0].RequiredState != dep.RequireValid {
		t.Fatalf("unexpected references: %+v", refs)
	}

	intNode := nodes["int"]
	if !intNode.Builtin() {
		t.Fatalf("expected int to be builtin")
	}
}

func TestLoadGraphRejectsDuplicateID(t *testing.T) {
	const doc = `{"objects": [{"id": "a"}, {"id": "a"}]}`
	if _, _, err := LoadGraph(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected an error for duplicate ids")
	}
}

func TestLoadGraphRejectsUnknownReference(t *testing.T) {
	const doc = `{"objects": [{"id": "a", "parent": "missing"}]}`
	if _, _, err := LoadGraph(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected an error for an unresolved parent reference")
	}
}

func TestLoadGraphDefaultsNamedToTrue(t *testing.T) {
	const doc = `{"objects": [{"id": "a"}]}`
	nodes, _, err := LoadGraph(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nodes["a"].Named() {
		t.Fatalf("expected default Named() == true")
	}
}
