package objmodel

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cortoforge/cortogen/dep"
)

// rawMember and rawReference mirror Member and Reference but in a form
// encoding/json can populate directly; CondExpr has no JSON
// representation, so loaded references are never conditional.
type rawMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type rawReference struct {
	Target     string `json:"target"`
	Embedded   bool   `json:"embedded"`
	RequiredOn string `json:"required"` // "declared", "valid", or "either"
}

// rawObject is one entry in a JSON-described object graph.
type rawObject struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"` // "value", "procedure", "class", "package"
	Named       *bool          `json:"named"`
	Builtin     bool           `json:"builtin"`
	External    bool           `json:"external"`
	Type        string         `json:"type"`
	Parent      string         `json:"parent"`
	Base        string         `json:"base"`
	ParentState string         `json:"parent_state"` // "valid" or "declared"
	Params      []string       `json:"params"`
	Members     []rawMember    `json:"members"`
	References  []rawReference `json:"references"`
	Marker      string         `json:"marker"`
}

type rawGraph struct {
	Root    string      `json:"root"`
	Objects []rawObject `json:"objects"`
}

// Node is a concrete, JSON-loadable Object. It is the meta-model adapter
// cortogen's CLI and integration tests use in place of a real reflection
// runtime: every field a real adapter would compute from source is here
// supplied directly by the JSON description.
type Node struct {
	id          string
	kind        Kind
	named       bool
	builtin     bool
	external    bool
	typeOf      *Node
	parentOf    *Node
	base        *Node
	parentState ParentState
	params      []Object
	members     []Member
	references  []Reference
	marker      *Node
}

func (n *Node) ID() string       { return n.id }
func (n *Node) Named() bool      { return n.named }
func (n *Node) Builtin() bool    { return n.builtin }
func (n *Node) External() bool   { return n.external }
func (n *Node) Kind() Kind       { return n.kind }
func (n *Node) ParamTypes() []Object {
	return n.params
}
func (n *Node) Members() []Member         { return n.members }
func (n *Node) References() []Reference   { return n.references }
func (n *Node) Options() TypeOptions      { return TypeOptions{ParentState: n.parentState} }

func (n *Node) TypeOf() Object {
	if n.typeOf == nil {
		return nil
	}
	return n.typeOf
}

func (n *Node) ParentOf() Object {
	if n.parentOf == nil {
		return nil
	}
	return n.parentOf
}

func (n *Node) Base() Object {
	if n.base == nil {
		return nil
	}
	return n.base
}

func (n *Node) Marker() Object {
	if n.marker == nil {
		return nil
	}
	return n.marker
}

// Compare reports structural equality for anonymous nodes: same kind, same
// type, same member list. Named nodes never need this (the builder only
// calls Compare on objects reporting Named() == false).
func (n *Node) Compare(other Object) bool {
	o, ok := other.(*Node)
	if !ok || o.kind != n.kind {
		return false
	}
	if (n.typeOf == nil) != (o.typeOf == nil) {
		return false
	}
	if n.typeOf != nil && n.typeOf.id != o.typeOf.id {
		return false
	}
	if len(n.members) != len(o.members) {
		return false
	}
	for i := range n.members {
		if n.members[i].Name != o.members[i].Name {
			return false
		}
	}
	return true
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "", "value":
		return KindValue, nil
	case "procedure":
		return KindProcedure, nil
	case "class":
		return KindClass, nil
	case "package":
		return KindPackage, nil
	default:
		return 0, fmt.Errorf("objmodel: unknown kind %q", s)
	}
}

func parseParentState(s string) ParentState {
	if s == "declared" {
		return ParentStateDeclared
	}
	return ParentStateValid
}

func parseRequiredState(s string) dep.RequiredState {
	switch s {
	case "valid":
		return dep.RequireValid
	case "either":
		return dep.RequireDeclaredOrValid
	default:
		return dep.RequireDeclared
	}
}

// LoadGraph decodes a JSON-described object graph and returns every node
// keyed by ID plus the root scope object (nil if the graph declares none).
// References between objects are resolved by ID in a second pass, so
// ordering within the JSON "objects" array does not matter.
func LoadGraph(r io.Reader) (map[string]*Node, Object, error) {
	var raw rawGraph
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("objmodel: decode graph: %w", err)
	}

	nodes := make(map[string]*Node, len(raw.Objects))
	for _, ro := range raw.Objects {
		if ro.ID == "" {
			return nil, nil, fmt.Errorf("objmodel: object with empty id")
		}
		if _, dup := nodes[ro.ID]; dup {
			return nil, nil, fmt.Errorf("objmodel: duplicate object id %q", ro.ID)
		}
		kind, err := parseKind(ro.Kind)
		if err != nil {
			return nil, nil, err
		}
		named := true
		if ro.Named != nil {
			named = *ro.Named
		}
		nodes[ro.ID] = &Node{
			id:          ro.ID,
			kind:        kind,
			named:       named,
			builtin:     ro.Builtin,
			external:    ro.External,
			parentState: parseParentState(ro.ParentState),
		}
	}

	resolve := func(id string) (*Node, error) {
		if id == "" {
			return nil, nil
		}
		n, ok := nodes[id]
		if !ok {
			return nil, fmt.Errorf("objmodel: reference to unknown object %q", id)
		}
		return n, nil
	}

	for _, ro := range raw.Objects {
		n := nodes[ro.ID]

		t, err := resolve(ro.Type)
		if err != nil {
			return nil, nil, err
		}
		n.typeOf = t

		p, err := resolve(ro.Parent)
		if err != nil {
			return nil, nil, err
		}
		n.parentOf = p

		b, err := resolve(ro.Base)
		if err != nil {
			return nil, nil, err
		}
		n.base = b

		m, err := resolve(ro.Marker)
		if err != nil {
			return nil, nil, err
		}
		n.marker = m

		for _, pid := range ro.Params {
			pn, err := resolve(pid)
			if err != nil {
				return nil, nil, err
			}
			if pn != nil {
				n.params = append(n.params, pn)
			}
		}

		for _, rm := range ro.Members {
			mt, err := resolve(rm.Type)
			if err != nil {
				return nil, nil, err
			}
			var memberType Object
			if mt != nil {
				memberType = mt
			}
			n.members = append(n.members, Member{Name: rm.Name, Type: memberType})
		}

		for _, rr := range ro.References {
			target, err := resolve(rr.Target)
			if err != nil {
				return nil, nil, err
			}
			var targetObj Object
			if target != nil {
				targetObj = target
			}
			n.references = append(n.references, Reference{
				Target:        targetObj,
				Embedded:      rr.Embedded,
				RequiredState: parseRequiredState(rr.RequiredOn),
			})
		}
	}

	var root Object
	if raw.Root != "" {
		rn, err := resolve(raw.Root)
		if err != nil {
			return nil, nil, err
		}
		if rn != nil {
			root = rn
		}
	}

	return nodes, root, nil
}
