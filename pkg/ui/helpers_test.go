package ui_test

import (
	"os"
	"path/filepath"
	"testing"
)

func createTemp(t *testing.T) (*os.File, error) {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Cleanup(func() { _ = f.Close() })
	}
	return f, err
}
