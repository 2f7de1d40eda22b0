// Package testutil provides golden-file comparison helpers shared across
// pycc's test suites (sema diagnostics, optimizer rewrite snapshots,
// codegen IR listings).
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether golden files are written instead of
// compared. Usage: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the conventional path for a golden file: one
// directory per feature under testdata, one file per case name.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden")
}

// CompareWithGolden compares got against the golden file for feature/name
// using cmp.Diff. In update mode it writes got as the new golden instead
// of comparing.
func CompareWithGolden(t testing.TB, feature, name, got string) {
	t.Helper()

	path := GoldenPath(feature, name)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("testutil: creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("testutil: writing golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("testutil: reading golden file %s: %v (run with UPDATE_GOLDENS=true to create it)", path, err)
	}

	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}

// AssertGoldenJSON marshals actual to indented JSON and compares it
// against the golden file for feature/name, the same way CompareWithGolden
// does for raw text.
func AssertGoldenJSON(t testing.TB, feature, name string, actual interface{}) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("testutil: marshaling golden data: %v", err)
	}
	CompareWithGolden(t, feature, name, string(data)+"\n")
}

// DiffJSON renders a cmp.Diff between two JSON-shaped values, for
// assertions that want a readable failure message without going through a
// golden file.
func DiffJSON(want, got interface{}) string {
	return cmp.Diff(want, got)
}
