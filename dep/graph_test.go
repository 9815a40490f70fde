package dep

import "testing"

func TestGraphLookupOrCreateIsIdempotent(t *testing.T) {
	g := NewGraph(nil)
	a := &testObj{id: "a"}

	idx1 := g.lookupOrCreate(a)
	idx2 := g.lookupOrCreate(a)
	if idx1 != idx2 {
		t.Fatalf("expected same index on repeat lookup, got %d and %d", idx1, idx2)
	}
	if g.itemCount() != 1 {
		t.Fatalf("expected 1 item, got %d", g.itemCount())
	}
}

func TestGraphDependSkipsSelfEdge(t *testing.T) {
	g := NewGraph(nil)
	a := &testObj{id: "a"}
	g.Depend(a, KindDeclare, a, RequireDeclared)

	if g.edgeCount() != 0 {
		t.Fatalf("expected self-dependency to install no edge, got %d edges", g.edgeCount())
	}
	if g.items[0].declareCount != 0 {
		t.Fatalf("expected declareCount 0 after self-dependency, got %d", g.items[0].declareCount)
	}
}

func TestGraphDependChargesCorrectCounter(t *testing.T) {
	g := NewGraph(nil)
	a := &testObj{id: "a"}
	b := &testObj{id: "b"}

	g.Depend(a, KindDeclare, b, RequireDeclared)
	g.Depend(a, KindValid, b, RequireValid)

	aIdx := g.index[a]
	if g.items[aIdx].declareCount != 1 {
		t.Fatalf("expected declareCount 1, got %d", g.items[aIdx].declareCount)
	}
	if g.items[aIdx].defineCount != 1 {
		t.Fatalf("expected defineCount 1, got %d", g.items[aIdx].defineCount)
	}
	if g.edgeCount() != 2 {
		t.Fatalf("expected 2 edges, got %d", g.edgeCount())
	}
}

func TestGraphWeakEdgeIsFlagged(t *testing.T) {
	g := NewGraph(nil)
	a := &testObj{id: "a"}
	b := &testObj{id: "b"}
	g.Depend(a, KindValid, b, RequireDeclaredOrValid)

	if !g.edges[0].weak {
		t.Fatalf("expected edge installed with RequireDeclaredOrValid to be weak")
	}
}

func TestRequiredStateFlip(t *testing.T) {
	tests := []struct {
		in   RequiredState
		want RequiredState
	}{
		{RequireDeclared, RequireValid},
		{RequireValid, RequireDeclared},
		{RequireDeclaredOrValid, RequireDeclaredOrValid},
	}
	for _, tc := range tests {
		if got := tc.in.Flip(); got != tc.want {
			t.Errorf("Flip(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGraphDuplicateDependChargesTwice(t *testing.T) {
	g := NewGraph(nil)
	a := &testObj{id: "a"}
	b := &testObj{id: "b"}

	g.Depend(a, KindDeclare, b, RequireValid)
	g.Depend(a, KindDeclare, b, RequireValid)

	if g.edgeCount() != 2 {
		t.Fatalf("expected both duplicate edges tracked, got %d", g.edgeCount())
	}
	if got := g.items[g.index[a]].declareCount; got != 2 {
		t.Fatalf("expected declareCount 2, got %d", got)
	}
}
