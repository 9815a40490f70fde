package host

import (
	"errors"
	"io"
	"os"
)

// openExistingOrOld opens path for reading so its code islands can be
// parsed before it is overwritten. If path does not exist but a
// "<path>.old" rename-recovery copy does — left behind when a previous run
// was interrupted after renaming the prior output aside but before
// finishing the new one — that copy is used instead. Returns (nil, nil,
// nil) if neither exists: a brand-new file has no islands to preserve.
func openExistingOrOld(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, f.Close, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	old, err := os.Open(path + ".old")
	if err == nil {
		return old, old.Close, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	return nil, nil, err
}
