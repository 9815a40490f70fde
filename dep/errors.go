package dep

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved is returned by (*Resolver).Walk when one or more items
// never reach StateValid. Callers that need the individual items should
// use errors.As to recover *ResolutionError.
var ErrUnresolved = errors.New("dependency resolution left items unresolved")

// Unresolved describes a single item that did not reach StateValid by
// the end of a walk.
type Unresolved struct {
	// ID is the object's objmodel.Object.ID(), captured for diagnostics
	// after the item itself has been freed.
	ID string
	// Declared reports whether the item at least reached StateDeclared.
	Declared bool
}

func (u Unresolved) String() string {
	if u.Declared {
		return fmt.Sprintf("not defined: %q", u.ID)
	}
	return fmt.Sprintf("not declared/defined: %q", u.ID)
}

// ResolutionError wraps ErrUnresolved with the full list of items that
// could not be resolved, each reported with its full path, while still
// giving callers a single typed error to act on.
type ResolutionError struct {
	Items []Unresolved
}

func (e *ResolutionError) Error() string {
	parts := make([]string, len(e.Items))
	for i, u := range e.Items {
		parts[i] = u.String()
	}
	return fmt.Sprintf("%s: %s", ErrUnresolved, strings.Join(parts, "; "))
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolved
}

// invalidKindError is a programmer-logic assertion — a Kind other than
// DECLARED or VALID is a program-logic error — raised via panic rather than
// returned: it can never be produced by valid caller input, only by a bug
// in this package or its caller.
type invalidKindError struct {
	kind any
}

func (e invalidKindError) Error() string {
	return fmt.Sprintf("dep: invalid dependency kind %v", e.kind)
}

// negativeRefcountError backs the invariant that declare_count and
// define_count never go negative; a violation is a logic bug in the
// resolver itself and aborts the run loudly rather than being reported as
// a resolution failure.
type negativeRefcountError struct {
	id    string
	field string
}

func (e negativeRefcountError) Error() string {
	return fmt.Sprintf("dep: %s went negative for item %q", e.field, e.id)
}
