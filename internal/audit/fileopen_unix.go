//go:build !windows

package audit

import (
	stderrors "errors"
	"os"
	"syscall"
)

// ErrSymlink is returned when the final path component is a symlink.
var ErrSymlink = stderrors.New("refusing to follow symlink")

// OpenNoFollow opens path with O_NOFOLLOW so a symlink committed into a
// repository cannot redirect audit rows into another file. O_CLOEXEC keeps
// the descriptor out of child processes.
//
// Only the final path component is protected; the .claude directory itself
// is created by us or already trusted by the host.
func OpenNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, ErrSymlink
		}
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}
