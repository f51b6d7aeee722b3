//go:build unix

package fsutil

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsLockError reports whether err means another process holds the file or
// directory, the condition delete and rename offer to retry.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case unix.EBUSY, unix.ETXTBSY, unix.EACCES, unix.EPERM:
		return true
	}
	return false
}

// IsPermissionError reports whether err is a missing-permission failure.
func IsPermissionError(err error) bool {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno == unix.EACCES || errno == unix.EPERM
	}
	return false
}

// Writable reports whether the current user can create entries in dir.
func Writable(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}
