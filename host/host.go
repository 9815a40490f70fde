// Package host implements the Generator Host: it configures a generation
// run — target language, root objects, attributes, imports, driver — and
// orchestrates the walk that drives a Dep Builder/Resolver pair and the
// driver's declare/define callbacks.
package host

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/cortoforge/cortogen/build"
	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/emit"
	"github.com/cortoforge/cortogen/fileio"
	"github.com/cortoforge/cortogen/objmodel"
)

// Driver is cortogen's pluggable back-end ABI. A concrete driver (package
// driver's Null/C, or driver/docai's decorator) implements this by
// structural typing; package driver re-exports it as driver.Driver via a
// type alias so driver.* need only import host, never the reverse.
type Driver interface {
	// Start is the driver's required entry point. A non-zero (non-nil)
	// result is a run failure.
	Start(ctx context.Context, h *Host) error
}

// IDTransformer is the driver ABI's optional identifier post-processing
// hook.
type IDTransformer interface {
	IDTransform(in string) string
}

// IDKind selects the case-mangling rule the identifier service applies to
// a class segment.
type IDKind int

const (
	// IDKindDefault leaves class segments as the meta-model names them.
	IDKindDefault IDKind = iota
	// IDKindUpperClass upper-cases the first letter of a class segment.
	IDKindUpperClass
	// IDKindLowerClass lower-cases the first letter of a class segment.
	IDKindLowerClass
)

// RootSpec is one configured root object and how it should be walked:
// parse_self, parse_scope, prefix.
type RootSpec struct {
	Object objmodel.Object
	// ParseSelf includes the root object itself in the walk.
	ParseSelf bool
	// ParseScope additionally includes the root's children, to a depth
	// that depends on which walk variant is in use.
	ParseScope bool
	// Prefix, if non-empty, substitutes this root's path segment in
	// identifiers for objects beneath it.
	Prefix string
}

// Host holds everything the Generator Host needs: name and
// language tag, configured roots, the driver handle, an attribute map,
// import lists, the current-object cursor, the in-walk re-entrancy flag,
// open files, and the anonymous-object dedup table shared with the
// identifier service.
type Host struct {
	name     string
	language string

	roots     []RootSpec
	driver    Driver
	scopeRoot objmodel.Object

	attrs         map[string]string
	imports       []string
	nestedImports []string

	cursor objmodel.Object
	inWalk bool

	openFiles map[string]*fileio.File
	outputDir string

	anon   *build.AnonymousTable
	idKind IDKind
	marker objmodel.Object

	emitter emit.Emitter
	metrics *dep.Metrics
}

// New creates a Host for the given name and target language. Use Option
// values to configure the driver, attributes, id kind, and observability
// sinks; AddRoot to register objects to walk.
func New(name, language string, opts ...Option) *Host {
	h := &Host{
		name:      name,
		language:  language,
		attrs:     make(map[string]string),
		openFiles: make(map[string]*fileio.File),
		anon:      build.NewAnonymousTable(),
		emitter:   emit.NewNullEmitter(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the run's configured name.
func (h *Host) Name() string { return h.name }

// Language returns the run's target language tag.
func (h *Host) Language() string { return h.language }

// AddRoot registers a root object to be walked, per the given spec.
func (h *Host) AddRoot(spec RootSpec) {
	h.roots = append(h.roots, spec)
}

// Roots returns the configured root specs in registration order.
func (h *Host) Roots() []RootSpec {
	return h.roots
}

// ScopeRoot returns the well-known root scope object passed to the Dep
// Builder (excluded from the parent-child back-edge the builder would
// otherwise install against it), or nil if this run has none.
func (h *Host) ScopeRoot() objmodel.Object { return h.scopeRoot }

// SetAttribute sets a configuration attribute, e.g. "h" to name the
// header output subdirectory, or "bootstrap" to force whole-scope
// inclusion.
func (h *Host) SetAttribute(key, value string) {
	h.attrs[key] = value
}

// Attribute returns a configuration attribute and whether it was set.
func (h *Host) Attribute(key string) (string, bool) {
	v, ok := h.attrs[key]
	return v, ok
}

// IsBootstrapAttribute reports whether the "bootstrap" attribute is the
// literal string "true".
func (h *Host) IsBootstrapAttribute() bool {
	v, _ := h.Attribute("bootstrap")
	return v == "true"
}

// Import records a package as explicitly imported by this run. It only
// appends pkgPath to the import list: no package metadata is loaded, and
// packages that pkgPath pulls in are not discovered here. Transitive
// imports are recorded separately, through ImportNested, so the driver can
// distinguish what the user asked for from what pulled it in.
func (h *Host) Import(pkgPath string) {
	h.imports = append(h.imports, pkgPath)
}

// ImportNested records a package pulled in transitively by an explicit
// Import, not requested directly.
func (h *Host) ImportNested(pkgPath string) {
	h.nestedImports = append(h.nestedImports, pkgPath)
}

// Imports returns the packages explicitly imported by this run.
func (h *Host) Imports() []string { return h.imports }

// NestedImports returns packages pulled in transitively.
func (h *Host) NestedImports() []string { return h.nestedImports }

// CurrentObject returns the object the walk is currently visiting, or nil
// outside of a walk. Drivers read this from within a callback to know
// what they're being asked to emit for.
func (h *Host) CurrentObject() objmodel.Object { return h.cursor }

// InWalk reports whether a walk is currently in progress. The walk API is
// re-entrant: a driver callback may itself call one of the Walk* methods,
// and InWalk lets nested calls detect that.
func (h *Host) InWalk() bool { return h.inWalk }

// SetOutputDir sets the root directory output files are written under.
func (h *Host) SetOutputDir(dir string) { h.outputDir = dir }

// OpenFile opens (or returns the already-open) output file for name with
// extension ext, bucketed into a subdirectory per the attribute rule
// fileio.ResolveDir applies. If a file of the same path exists on disk,
// its code islands are parsed and preserved.
func (h *Host) OpenFile(name, ext string, scope objmodel.Object) (*fileio.File, error) {
	path := filepath.Join(fileio.ResolveDir(h.outputDir, h.attrs, ext), name)

	if f, ok := h.openFiles[path]; ok {
		return f, nil
	}

	var scopeID interface{ ID() string }
	if scope != nil {
		scopeID = scope
	}

	existing, closeFn, err := openExistingOrOld(path)
	if err != nil {
		return nil, fmt.Errorf("host: opening %s: %w", path, err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	f, err := fileio.Open(path, scopeID, existing)
	if err != nil {
		return nil, fmt.Errorf("host: parsing islands in %s: %w", path, err)
	}
	h.openFiles[path] = f
	return f, nil
}

// LookupFile returns an already-open file by path, if any.
func (h *Host) LookupFile(path string) (*fileio.File, bool) {
	f, ok := h.openFiles[path]
	return f, ok
}

// CloseFiles closes every open file in path order, collecting
// island-mismatch warnings and the first I/O error encountered. It always
// attempts to close every file even after an error: partial output is
// never rolled back.
func (h *Host) CloseFiles() ([]string, error) {
	paths := make([]string, 0, len(h.openFiles))
	for path := range h.openFiles {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var warnings []string
	var firstErr error
	for _, path := range paths {
		w, err := h.openFiles[path].Close()
		warnings = append(warnings, w...)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("host: closing %s: %w", path, err)
		}
	}
	h.openFiles = make(map[string]*fileio.File)
	return warnings, firstErr
}

// AnonymousTable exposes the dedup table shared by the builder and the
// identifier service, so an anonymous object's synthesized name
// (anonymous_<package>_<index>) stays stable within a run.
func (h *Host) AnonymousTable() *build.AnonymousTable { return h.anon }
