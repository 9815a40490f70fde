// Package docai implements an optional Generator Host driver decorator
// that drafts a one-line doc comment for each declared object using an
// LLM, before delegating to the driver it wraps. It is pure additive
// post-processing: if the model call errors, times out, or is never
// configured, the wrapped driver's own output and the resolver's
// generation order are completely unaffected.
package docai

import "context"

// ChatModel is a single-turn text-completion provider. It deliberately
// has no tool calling: drafting a doc comment is a one-shot text
// generation that never needs to act on the rest of the run.
type ChatModel interface {
	// Chat sends messages and returns the model's reply. Implementations
	// must respect ctx cancellation.
	Chat(ctx context.Context, messages []Message) (ChatOut, error)
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string
	Content string
}

// Standard chat role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatOut is a model's reply.
type ChatOut struct {
	Text string
}
