//go:build !linux

package affinity

import "errors"

// ErrUnsupported is returned by PinThread on platforms without a
// sched_setaffinity equivalent wired up. Per spec.md §7 this is an
// environmental soft failure: callers log it and proceed unpinned.
var ErrUnsupported = errors.New("affinity: thread pinning not supported on this platform")

// ProcessMask falls back to runtime.NumCPU() on platforms where this
// package has no syscall-level affinity query wired up.
func ProcessMask() (Mask, error) {
	return All(), nil
}

// PinThread always reports ErrUnsupported outside Linux.
func PinThread(_ Mask) error {
	return ErrUnsupported
}
