package host

import (
	"strconv"
	"strings"

	"github.com/cortoforge/cortogen/objmodel"
)

// Identifier resolves o to a language identifier: it finds the nearest
// configured root that is an ancestor of o, substitutes that root's prefix
// for its own path segment (or, absent a matching root, renders the full
// path), mangles a procedure's name against its overload set, applies the
// configured class case rule to each class segment, and finally runs the
// driver's optional IDTransform.
func (h *Host) Identifier(o objmodel.Object) string {
	if o == nil {
		return ""
	}
	if !o.Named() {
		return h.anonymousName(o)
	}

	var segs []string
	if root, _ := h.nearestRoot(o); root != nil && root.Prefix != "" {
		segs = append([]string{root.Prefix}, h.pathFrom(o, root.Object)...)
	} else {
		segs = h.pathFrom(o, nil)
	}

	id := strings.Join(segs, ".")
	if o.Kind() == objmodel.KindProcedure {
		id = h.mangleProcedure(o, id)
	}

	if t, ok := h.driver.(IDTransformer); ok {
		id = t.IDTransform(id)
	}
	return id
}

// nearestRoot returns the configured root with the smallest ancestor
// distance to o, and that distance, or (nil, -1) if o descends from none
// of them.
func (h *Host) nearestRoot(o objmodel.Object) (*RootSpec, int) {
	var best *RootSpec
	bestDist := -1
	for i := range h.roots {
		r := &h.roots[i]
		dist := ancestorDistance(o, r.Object)
		if dist < 0 {
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = r, dist
		}
	}
	return best, bestDist
}

func ancestorDistance(o, ancestor objmodel.Object) int {
	if ancestor == nil {
		return -1
	}
	dist := 0
	for cur := o; cur != nil; cur = cur.ParentOf() {
		if cur == ancestor {
			return dist
		}
		dist++
	}
	return -1
}

// pathFrom renders o's ancestor chain as case-mangled name segments,
// nearest ancestor last, stopping before stopAt (or walking to the top if
// stopAt is nil).
func (h *Host) pathFrom(o objmodel.Object, stopAt objmodel.Object) []string {
	var chain []objmodel.Object
	for cur := o; cur != nil && cur != stopAt; cur = cur.ParentOf() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	segs := make([]string, len(chain))
	for i, c := range chain {
		segs[i] = h.applySegmentCase(c, simpleName(c))
	}
	return segs
}

func (h *Host) applySegmentCase(o objmodel.Object, name string) string {
	if o.Kind() != objmodel.KindClass || name == "" {
		return name
	}
	switch h.idKind {
	case IDKindUpperClass:
		return strings.ToUpper(name[:1]) + name[1:]
	case IDKindLowerClass:
		return strings.ToLower(name[:1]) + name[1:]
	default:
		return name
	}
}

// mangleProcedure appends a type-only signature to id when o's simple name
// collides with a sibling procedure in the same scope; a non-overloaded
// procedure keeps its plain name.
func (h *Host) mangleProcedure(o objmodel.Object, id string) string {
	if !h.isOverloaded(o) {
		return id
	}
	params := o.ParamTypes()
	sig := make([]string, len(params))
	for i, p := range params {
		sig[i] = simpleName(p)
	}
	return id + "(" + strings.Join(sig, ",") + ")"
}

func (h *Host) isOverloaded(o objmodel.Object) bool {
	parent := o.ParentOf()
	if parent == nil {
		return false
	}
	name := simpleName(o)
	count := 0
	for _, m := range parent.Members() {
		if m.Type != nil && m.Type.Kind() == objmodel.KindProcedure && simpleName(m.Type) == name {
			count++
		}
	}
	return count > 1
}

// anonymousName synthesizes anonymous_<package>_<index>, where index is o's
// dedup position in the shared AnonymousTable.
func (h *Host) anonymousName(o objmodel.Object) string {
	idx := h.anon.Index(h.anon.Canonicalize(o))
	pkgName := "pkg"
	if pkg := nearestPackage(o); pkg != nil {
		pkgName = simpleName(pkg)
	}
	return "anonymous_" + pkgName + "_" + strconv.Itoa(idx)
}

func nearestPackage(o objmodel.Object) objmodel.Object {
	for cur := o.ParentOf(); cur != nil; cur = cur.ParentOf() {
		if cur.Kind() == objmodel.KindPackage {
			return cur
		}
	}
	return nil
}

// simpleName returns the last dot-separated component of o's ID, its
// "local" name within its parent scope.
func simpleName(o objmodel.Object) string {
	id := o.ID()
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[i+1:]
	}
	return id
}
