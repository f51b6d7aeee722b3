package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// Touch creates an empty file, creating parent directories as needed.
func Touch(t testing.TB, path string) string {
	t.Helper()
	WriteFile(t, path, 0)
	return path
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes an empty file.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, max(size, 0))
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MkdirAll creates every directory in paths.
func MkdirAll(t testing.TB, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

// MakeAsset creates the four structural folders that mark dir as an asset.
func MakeAsset(t testing.TB, dir string) string {
	t.Helper()
	for _, sub := range []string{"Export", "Playblasts", "Rendering", "Scenefiles"} {
		MkdirAll(t, filepath.Join(dir, sub))
	}
	return dir
}

// Exists reports whether path exists.
func Exists(t testing.TB, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if !os.IsNotExist(err) {
		t.Fatalf("stat %s: %v", path, err)
	}
	return false
}
