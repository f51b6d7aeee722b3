package fsutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Mode selects how TransferFile places the destination.
type Mode int

const (
	// Copy leaves the source in place.
	Copy Mode = iota
	// Move removes the source once the destination is complete.
	Move
)

func (m Mode) String() string {
	if m == Move {
		return "move"
	}
	return "copy"
}

// TransferFile copies or moves src to dst, creating dst's parent directory.
// Moves are a rename when both paths share a filesystem and fall back to a
// verified copy plus source removal otherwise.
func TransferFile(src, dst string, mode Mode) error {
	if src == dst {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	if mode == Move {
		err := os.Rename(src, dst)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EXDEV) {
			return err
		}
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := copyVerified(src, dst, info.Mode().Perm()); err != nil {
		return err
	}
	if mode == Move {
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("remove source after copy: %w", err)
		}
	}
	return nil
}

// copyVerified streams src to dst and compares SHA256 digests and sizes.
// dst is removed on mismatch.
func copyVerified(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHash := sha256.New()
	dstHash := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHash), io.TeeReader(in, srcHash))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if !bytes.Equal(srcHash.Sum(nil), dstHash.Sum(nil)) {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
