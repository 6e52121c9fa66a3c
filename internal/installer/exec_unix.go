//go:build unix

package installer

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// executable asks the kernel whether this process may execute path, so
// ownership and group membership count, not just the mode bits.
func executable(path string, _ fs.FileMode) bool {
	return unix.Access(path, unix.X_OK) == nil
}
