// Package driver implements concrete drivers for the Generator Host: the
// back ends that configure a Host's roots and attributes and, through
// on_declare/on_define callbacks, emit output via fileio.
//
// Driver and IDTransformer are defined in package host, not here, so that
// host never needs to import driver: a concrete driver in this package
// satisfies host.Driver purely by structural typing. These aliases let
// callers spell the ABI as driver.Driver without reaching into host.
package driver

import "github.com/cortoforge/cortogen/host"

// Driver is the entry point a Host calls to run a generation pass.
type Driver = host.Driver

// IDTransformer is a driver's optional identifier post-processing hook.
type IDTransformer = host.IDTransformer

// ErrDriverFailed is an error type that names a failing driver and wraps
// its cause. Null and C do not use it: their Start returns the walk's
// error unwrapped.
type ErrDriverFailed struct {
	Driver string
	Cause  error
}

func (e *ErrDriverFailed) Error() string {
	return "driver " + e.Driver + ": " + e.Cause.Error()
}

func (e *ErrDriverFailed) Unwrap() error {
	return e.Cause
}
