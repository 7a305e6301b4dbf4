//go:build windows

package audit

import (
	stderrors "errors"
	"os"
)

// ErrSymlink is returned when the final path component is a symlink.
var ErrSymlink = stderrors.New("refusing to follow symlink")

// OpenNoFollow opens path without following a symlink at its final component.
// Windows has no O_NOFOLLOW, so the final component is checked with Lstat
// first. Creating symlinks there needs elevated privileges, which keeps the
// check-then-open window uninteresting.
func OpenNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return nil, ErrSymlink
	}
	return os.OpenFile(path, flag, perm)
}
