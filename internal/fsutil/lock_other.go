//go:build !unix

package fsutil

import (
	"errors"
	"io/fs"
	"os"
)

// IsLockError reports whether err means another process holds the file or
// directory, the condition delete and rename offer to retry.
func IsLockError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// IsPermissionError reports whether err is a missing-permission failure.
func IsPermissionError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// Writable reports whether dir exists and is a directory.
func Writable(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
