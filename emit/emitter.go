// Package emit provides pluggable observability for a resolver walk or a
// generator host run: declare/define transitions, cycle breaks, warnings,
// and driver activity all flow through an Emitter.
package emit

import "context"

// Emitter receives observability events produced during a walk.
//
// Implementations should be non-blocking and must never panic; a slow or
// failing observability backend must not be able to abort generation.
type Emitter interface {
	// Emit sends a single event. Implementations should not block.
	Emit(event Event)

	// EmitBatch sends multiple events in one call, preserving order.
	// Returns an error only for catastrophic failures; individual event
	// failures should be logged internally, not returned.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until any buffered events have been delivered. Safe to
	// call multiple times.
	Flush(ctx context.Context) error
}
