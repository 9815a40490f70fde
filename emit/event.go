package emit

// Event is one observability record from a resolver walk or host run.
//
// Common Msg values: "dep_declare", "dep_define", "dep_cycle_break",
// "warning", "host_walk_start", "host_walk_end", "host_bootstrap",
// "driver_error". Unresolved items are reported as one "warning" each,
// with Meta "kind" set to "dep_unresolved".
type Event struct {
	// RunID identifies the generation run that produced this event.
	RunID string

	// Step is a sequence number within the run, for callers that stamp
	// one. The resolver and host leave it zero on every event they emit.
	Step int

	// ItemID identifies the object (by objmodel.Object.ID) this event
	// concerns. Empty for run-level events.
	ItemID string

	// Msg is a short, stable event name.
	Msg string

	// Meta carries event-specific structured data, e.g. the "kind" and
	// "text" of an unresolved-item warning, or the island id for an
	// island-mismatch warning.
	Meta map[string]interface{}
}
