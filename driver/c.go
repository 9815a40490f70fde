package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/host"
	"github.com/cortoforge/cortogen/objmodel"
)

// C is a minimal C-header/-source driver: every class becomes a forward
// typedef plus a struct definition, every procedure a prototype plus a
// definition whose body is wrapped in a $begin/$end code island so a
// hand-edited body survives regeneration. It exists primarily to exercise
// fileio's island grammar end to end against a real (if tiny) driver.
type C struct {
	// Prefix names the output pair <Prefix>.h / <Prefix>.c. Defaults to
	// "generated" if empty.
	Prefix string
}

func (d C) Start(ctx context.Context, h *host.Host) error {
	h.SetAttribute("h", "include")
	h.SetAttribute("c", "src")

	return h.WalkRecursively(ctx,
		func(dep.Object) { d.declare(h) },
		func(dep.Object) { d.define(h) },
	)
}

func (d C) prefix() string {
	if d.Prefix != "" {
		return d.Prefix
	}
	return "generated"
}

func (d C) headerName() string { return d.prefix() + ".h" }
func (d C) sourceName() string { return d.prefix() + ".c" }

// IDTransform maps cortogen's dotted meta-model paths to valid C
// identifiers.
func (d C) IDTransform(in string) string {
	return strings.ReplaceAll(in, ".", "_")
}

func (d C) declare(h *host.Host) {
	o := h.CurrentObject()
	if o == nil {
		return
	}
	hf, err := h.OpenFile(d.headerName(), "h", o)
	if err != nil {
		return
	}

	id := h.Identifier(o)
	switch o.Kind() {
	case objmodel.KindClass:
		hf.WriteLine(fmt.Sprintf("typedef struct %s %s;", id, id))
	case objmodel.KindProcedure:
		hf.WriteLine(fmt.Sprintf("void %s(void);", id))
	}
}

func (d C) define(h *host.Host) {
	o := h.CurrentObject()
	if o == nil {
		return
	}
	switch o.Kind() {
	case objmodel.KindClass:
		d.defineClass(h, o)
	case objmodel.KindProcedure:
		d.defineProcedure(h, o)
	}
}

func (d C) defineClass(h *host.Host, o objmodel.Object) {
	hf, err := h.OpenFile(d.headerName(), "h", o)
	if err != nil {
		return
	}

	id := h.Identifier(o)
	hf.WriteLine(fmt.Sprintf("struct %s {", id))
	for _, m := range o.Members() {
		if m.Type == nil {
			continue
		}
		hf.WriteLine(fmt.Sprintf("\t%s %s;", h.Identifier(m.Type), m.Name))
	}
	hf.WriteLine("};")
}

// defineProcedure emits the function body inside a $begin/$end island
// keyed by the procedure's identifier. When the output file already
// existed, Island returns whatever body a prior run (or a human) left
// there, and that body is re-emitted verbatim rather than overwritten.
func (d C) defineProcedure(h *host.Host, o objmodel.Object) {
	sf, err := h.OpenFile(d.sourceName(), "c", o)
	if err != nil {
		return
	}

	id := h.Identifier(o)
	sf.WriteLine(fmt.Sprintf("void %s(void)", id))
	sf.WriteLine("{")
	sf.WriteString(fmt.Sprintf("$begin(%s)\n", id))
	if isl, ok := sf.Island(id); ok {
		sf.WriteString(isl.Body)
	} else {
		sf.WriteLine("\t/* TODO: implement */")
	}
	sf.WriteLine("$end")
	sf.WriteLine("}")
}
