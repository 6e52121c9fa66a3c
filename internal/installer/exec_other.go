//go:build !unix

package installer

import (
	"io/fs"
	"runtime"
)

func executable(_ string, mode fs.FileMode) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return mode.Perm()&0111 != 0
}
