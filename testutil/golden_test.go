package testutil

import (
	"testing"
)

func TestCompareWithGoldenMatchesFixture(t *testing.T) {
	CompareWithGolden(t, "selftest", "greeting", "hello, pycc\n")
}

func TestCompareWithGoldenReportsMismatch(t *testing.T) {
	ft := &fakeT{T: t}
	CompareWithGolden(ft, "selftest", "greeting", "goodbye, pycc\n")
	if !ft.failed {
		t.Fatalf("expected CompareWithGolden to report a mismatch")
	}
}

func TestAssertGoldenJSONMarshalsStructuredData(t *testing.T) {
	type stats struct {
		Allocated uint64 `json:"allocated"`
		Live      uint64 `json:"live"`
	}
	AssertGoldenJSON(t, "selftest", "stats", stats{Allocated: 4, Live: 2})
}

func TestDiffJSONIsEmptyForEqualValues(t *testing.T) {
	if diff := DiffJSON(map[string]int{"a": 1}, map[string]int{"a": 1}); diff != "" {
		t.Fatalf("expected empty diff, got %q", diff)
	}
}

func TestDiffJSONReportsDifference(t *testing.T) {
	if diff := DiffJSON(map[string]int{"a": 1}, map[string]int{"a": 2}); diff == "" {
		t.Fatalf("expected non-empty diff for differing values")
	}
}

// fakeT captures whether Errorf was called without failing the
// real test, so TestCompareWithGoldenReportsMismatch can assert on
// CompareWithGolden's own failure path.
type fakeT struct {
	*testing.T
	failed bool
}

func (f *fakeT) Errorf(format string, args ...interface{}) {
	f.failed = true
}
