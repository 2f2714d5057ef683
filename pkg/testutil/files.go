package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envboot/pkg/types"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDevTree creates a development checkout under dir containing every
// marker plus the given extra files, and returns its path
func CreateDevTree(t *testing.T, dir string, markers []string, extra map[string]string) string {
	t.Helper()

	for _, m := range markers {
		CreateFile(t, dir, m, m+"\n")
	}
	for name, content := range extra {
		CreateFile(t, dir, name, content)
	}
	return dir
}

// WriteFS writes files into an in-memory or real types.FS
func WriteFS(t *testing.T, fs types.FS, files map[string]string) {
	t.Helper()

	for path, content := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
}

// AssertFileContent checks that a file has the expected content
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(content) != expected {
		t.Errorf("File %s content mismatch:\nExpected: %q\nActual: %q", path, expected, string(content))
	}
}

// AssertSymlink checks that link is a symlink pointing to expectedTarget
func AssertSymlink(t *testing.T, link, expectedTarget string) {
	t.Helper()

	target, err := os.Readlink(link)
	if err != nil {
		t.Errorf("Expected %s to be a symlink: %v", link, err)
		return
	}
	if target != expectedTarget {
		t.Errorf("Symlink %s points to %s, expected %s", link, target, expectedTarget)
	}
}

// AssertNoFile checks that nothing exists at path
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected %s not to exist", path)
	}
}
