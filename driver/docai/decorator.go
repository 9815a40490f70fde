package docai

import (
	"context"
	"strings"
	"time"

	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/host"
	"github.com/cortoforge/cortogen/objmodel"
)

// Decorator wraps another driver, running a full recursive walk first to
// draft a one-line doc comment per declared object via Model, then
// delegating to Inner for the real generation pass. Comments are cached
// by object ID and exposed through Comment; the Decorator does not hand
// them to Inner, so they reach Inner's output only if Inner itself holds
// the Decorator and calls Comment (driver.C does not).
//
// The drafting walk runs against a throwaway Resolver — it never shares
// state with Inner's own walk, so an LLM failure, timeout, or Model being
// nil never changes what Inner emits or the order it emits it in.
type Decorator struct {
	Inner   host.Driver
	Model   ChatModel
	Timeout time.Duration

	comments map[string]string
}

// NewDecorator creates a Decorator wrapping inner and drafting comments
// with model. A nil model disables drafting entirely (Comment always
// misses), which is a valid, supported configuration.
func NewDecorator(inner host.Driver, model ChatModel) *Decorator {
	return &Decorator{
		Inner:    inner,
		Model:    model,
		Timeout:  5 * time.Second,
		comments: make(map[string]string),
	}
}

func (d *Decorator) Start(ctx context.Context, h *host.Host) error {
	if d.Model != nil {
		_ = h.WalkRecursively(ctx,
			func(o dep.Object) { d.draft(ctx, h, o) },
			func(dep.Object) {},
		)
	}
	return d.Inner.Start(ctx, h)
}

// IDTransform forwards to Inner's own IDTransform, if it has one, so
// wrapping a driver in Decorator never silently drops its identifier
// post-processing.
func (d *Decorator) IDTransform(in string) string {
	if t, ok := d.Inner.(host.IDTransformer); ok {
		return t.IDTransform(in)
	}
	return in
}

func (d *Decorator) draft(ctx context.Context, h *host.Host, o dep.Object) {
	oo, ok := o.(objmodel.Object)
	if !ok || oo.Builtin() || oo.External() {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	out, err := d.Model.Chat(cctx, []Message{
		{Role: RoleSystem, Content: "Write one short sentence documenting this declaration. Reply with only that sentence."},
		{Role: RoleUser, Content: h.Identifier(oo)},
	})
	if err != nil {
		return
	}
	if text := strings.TrimSpace(out.Text); text != "" {
		d.comments[oo.ID()] = text
	}
}

// Comment returns the drafted doc comment for o, if drafting succeeded
// for it.
func (d *Decorator) Comment(o objmodel.Object) (string, bool) {
	if o == nil {
		return "", false
	}
	c, ok := d.comments[o.ID()]
	return c, ok
}
