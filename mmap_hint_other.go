//go:build !linux

package bitable

import "os"

// applyAccessHint is a best-effort no-op on platforms where x/sys/unix does
// not expose posix_fadvise (e.g. Darwin). The hint remains advisory per
// §4.3; there is nothing incorrect about ignoring it.
func applyAccessHint(f *os.File, hint OpenHint) error {
	return nil
}
