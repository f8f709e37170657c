package sat

import "sync/atomic"

// boolFlag is a simple atomic boolean, the only cross-goroutine surface the
// solver exposes. The intended pattern is a signal handler
// calling Set from outside the solving goroutine; the search loop checks it
// at the top of every iteration.
type boolFlag struct {
	v atomic.Bool
}

// Set raises the flag.
func (f *boolFlag) Set() { f.v.Store(true) }

// Clear lowers the flag.
func (f *boolFlag) Clear() { f.v.Store(false) }

// IsSet reports the flag's current value.
func (f *boolFlag) IsSet() bool { return f.v.Load() }
