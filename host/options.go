package host

import (
	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/emit"
	"github.com/cortoforge/cortogen/objmodel"
)

// Option configures a Host at construction time, following the same
// functional-options shape as dep.Option. The walk itself is
// single-threaded, so there is no concurrency-tuning knob here; these
// options cover the driver, attributes, id-generation strategy, and
// observability wiring the host owns.
type Option func(*Host)

// WithDriver registers the back-end that will receive on_declare/on_define
// callbacks and drive the walk via the Host's Walk* methods.
func WithDriver(d Driver) Option {
	return func(h *Host) { h.driver = d }
}

// WithAttribute pre-sets a configuration attribute, e.g.
// WithAttribute("h", "include") to bucket header files under an "include"
// subdirectory, or WithAttribute("bootstrap", "true") to force whole-scope
// inclusion regardless of marker.
func WithAttribute(key, value string) Option {
	return func(h *Host) { h.SetAttribute(key, value) }
}

// WithIDKind selects the case-mangling rule applied to class identifier
// segments.
func WithIDKind(kind IDKind) Option {
	return func(h *Host) { h.idKind = kind }
}

// WithOutputDir sets the root directory generated files are written
// under.
func WithOutputDir(dir string) Option {
	return func(h *Host) { h.outputDir = dir }
}

// WithEmitter attaches an observability sink for host-level events
// ("host_walk_start", "host_walk_end", "host_bootstrap", "driver_error")
// alongside whatever the resolver itself emits.
func WithEmitter(e emit.Emitter) Option {
	return func(h *Host) { h.emitter = e }
}

// WithMetrics attaches the same dep.Metrics instance the resolver uses, so
// a run configured through Host also gets Prometheus instrumentation
// without wiring it twice.
func WithMetrics(m *dep.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// WithMarker sets the well-known marker object that identifies this
// generation. Scope walks only descend into a child whose Marker() equals
// this object, unless the "bootstrap" attribute is "true".
func WithMarker(marker objmodel.Object) Option {
	return func(h *Host) { h.marker = marker }
}

// WithScopeRoot sets the root scope object passed through to the Dep
// Builder: the one object excluded from the parent/child back-edge the
// builder would otherwise install for it.
func WithScopeRoot(root objmodel.Object) Option {
	return func(h *Host) { h.scopeRoot = root }
}
