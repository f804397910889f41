package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir lays out 'files', keyed by slash separated relative path, in a fresh
// directory removed at the end of the test.
func TempDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, files)

	return dir
}

// WriteFiles writes 'files' below 'dir', creating the missing directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("cannot create the directory of %s: %v", name, err)
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("cannot write %s: %v", name, err)
		}
	}
}
