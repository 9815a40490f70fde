package build

import "github.com/cortoforge/cortogen/objmodel"

// AnonymousTable deduplicates unnamed objects by structural equality. A
// linear scan is acceptable given realistic corpus sizes — no hash is
// assumed cheap for an opaque meta-model object.
type AnonymousTable struct {
	entries []objmodel.Object
}

// NewAnonymousTable creates an empty dedup table.
func NewAnonymousTable() *AnonymousTable {
	return &AnonymousTable{}
}

// Canonicalize returns o unchanged if it is named. Otherwise it scans
// previously-seen anonymous objects for one that Compare()s equal to o and
// returns that canonical representative, registering o as the
// representative itself if none matches yet.
func (t *AnonymousTable) Canonicalize(o objmodel.Object) objmodel.Object {
	if o == nil || o.Named() {
		return o
	}
	for _, e := range t.entries {
		if e.Compare(o) {
			return e
		}
	}
	t.entries = append(t.entries, o)
	return o
}

// Len reports how many distinct anonymous objects have been registered.
func (t *AnonymousTable) Len() int { return len(t.entries) }

// Index returns the dedup position of o, or -1 if o is not a canonical
// anonymous entry in this table. The identifier service uses it as the
// <index> in anonymous_<package>_<index> names.
func (t *AnonymousTable) Index(o objmodel.Object) int {
	for i, e := range t.entries {
		if e == o {
			return i
		}
	}
	return -1
}
