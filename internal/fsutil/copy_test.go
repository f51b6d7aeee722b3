package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestTransferFileCopyKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Body_mod_main_v0001_a_rfr_.ma")
	dst := filepath.Join(dir, "nested", "Body_mod_main_v0001_b_rfr_.ma")

	if err := os.WriteFile(src, []byte("scene"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := TransferFile(src, dst, Copy); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "scene" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestTransferFileMoveRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.ma")
	dst := filepath.Join(dir, "b.ma")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := TransferFile(src, dst, Move); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, got %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination: %v", err)
	}
}

func TestTransferFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []Mode{Copy, Move} {
		if err := TransferFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), mode); err == nil {
			t.Fatalf("%s: expected error for missing source", mode)
		}
	}
}

func TestCopyVerifiedPreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := copyVerified(src, dst, 0o755); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	// umask may clear some bits.
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits, got %o", info.Mode().Perm())
	}
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", &os.PathError{Op: "remove", Path: "x", Err: syscall.EBUSY}, true},
		{"permission", &os.PathError{Op: "rename", Path: "x", Err: syscall.EACCES}, true},
		{"missing", &os.PathError{Op: "remove", Path: "x", Err: syscall.ENOENT}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsLockError(tt.err); got != tt.want {
			t.Fatalf("%s: IsLockError = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWritable(t *testing.T) {
	if !Writable(t.TempDir()) {
		t.Fatal("temp dir should be writable")
	}
	if Writable(filepath.Join(t.TempDir(), "missing")) {
		t.Fatal("missing dir should not be writable")
	}
}
