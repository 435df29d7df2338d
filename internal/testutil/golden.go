// Package testutil holds shared test helpers.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// updateGolden controls whether golden files are rewritten.
// Use: go test ./... -update
var updateGolden = flag.Bool("update", false, "update golden files")

// Golden compares got against the named golden file under testdata/,
// rewriting the file when -update is set.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name)
	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s (run with -update to create): %v", path, err)
	}
	if string(want) != string(got) {
		t.Errorf("output differs from golden %s\n--- want\n%s\n--- got\n%s", path, want, got)
	}
}
