package driver

import (
	"context"

	"github.com/cortoforge/cortogen/dep"
	"github.com/cortoforge/cortogen/host"
)

// Null is a no-op driver: it walks every configured object, exercising
// dependency resolution, but writes no output. Used in tests and as the
// zero-value backend when a caller wants resolution order without
// generating files.
type Null struct{}

func (Null) Start(ctx context.Context, h *host.Host) error {
	return h.WalkRecursively(ctx,
		func(dep.Object) {},
		func(dep.Object) {},
	)
}
