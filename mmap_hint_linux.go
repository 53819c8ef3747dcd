//go:build linux

package bitable

import (
	"os"

	"golang.org/x/sys/unix"
)

// applyAccessHint maps an OpenHint to posix_fadvise, as described in §4.3.
// The hint is advisory; a failure here is surfaced as FILE_OPERATION_FAILED
// by the caller rather than silently ignored, since the caller asked for a
// specific access pattern and the OS rejected the request outright.
func applyAccessHint(f *os.File, hint OpenHint) error {
	advice := unix.FADV_NORMAL

	switch hint {
	case HintRandom:
		advice = unix.FADV_RANDOM
	case HintSequential:
		advice = unix.FADV_SEQUENTIAL
	}

	return unix.Fadvise(int(f.Fd()), 0, 0, advice)
}
