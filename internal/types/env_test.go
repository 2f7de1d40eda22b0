package types

import "testing"

func TestIntersectFromIdempotent(t *testing.T) {
	e := NewEnv()
	e.Define("x", MInt, ProvAssign)
	e.Define("y", MStr, ProvAssign)

	merged := IntersectFrom(e, e)
	for _, name := range []string{"x", "y"} {
		got, ok := merged.Lookup(name)
		if !ok {
			t.Fatalf("expected %s to survive IntersectFrom(E, E)", name)
		}
		want, _ := e.Lookup(name)
		if got != want {
			t.Fatalf("IntersectFrom(E, E) changed mask of %s: got %s want %s", name, got, want)
		}
	}
}

func TestIntersectFromDropsUnsharedNames(t *testing.T) {
	thenEnv := NewEnv()
	thenEnv.Define("x", MInt, ProvAssign)
	thenEnv.Define("onlyThen", MStr, ProvAssign)

	elseEnv := NewEnv()
	elseEnv.Define("x", MFloat, ProvAssign)

	merged := IntersectFrom(thenEnv, elseEnv)
	if _, ok := merged.Lookup("onlyThen"); ok {
		t.Fatalf("onlyThen should not survive a merge where the else-branch never bound it")
	}
	got, ok := merged.Lookup("x")
	if !ok {
		t.Fatalf("x should survive, bound on both branches")
	}
	if got != (MInt | MFloat) {
		t.Fatalf("expected union Int|Float, got %s", got)
	}
}

func TestRestrictAndExcludeKind(t *testing.T) {
	e := NewEnv()
	e.Define("x", MInt|MStr|MNone, ProvParam)

	thenEnv := e.Clone()
	thenEnv.RestrictToKind("x", MInt)
	if got, _ := thenEnv.Lookup("x"); got != MInt {
		t.Fatalf("RestrictToKind(Int) = %s, want Int", got)
	}

	elseEnv := e.Clone()
	elseEnv.ExcludeKind("x", MInt)
	if got, _ := elseEnv.Lookup("x"); got != (MStr | MNone) {
		t.Fatalf("ExcludeKind(Int) = %s, want Str|None", got)
	}
}

func TestMarkNonNone(t *testing.T) {
	e := NewEnv()
	e.Define("x", MInt|MNone, ProvParam)
	e.MarkNonNone("x")
	if got, _ := e.Lookup("x"); got != MInt {
		t.Fatalf("MarkNonNone left mask %s, want Int", got)
	}
}

func TestUnionSetWidensAcrossReassignment(t *testing.T) {
	e := NewEnv()
	e.Define("x", MInt, ProvAssign)
	e.UnionSet("x", MStr, ProvAssign)
	got, _ := e.Lookup("x")
	if got != (MInt | MStr) {
		t.Fatalf("UnionSet should widen to Int|Str, got %s", got)
	}
}

func TestMaskSoleRoundTrip(t *testing.T) {
	for kind, mask := range map[string]Mask{
		"Int": MInt, "Float": MFloat, "Bool": MBool, "Str": MStr,
	} {
		if mask.String() != kind {
			t.Fatalf("mask %v stringified to %q, want %q", mask, mask.String(), kind)
		}
		if !mask.IsSingle() {
			t.Fatalf("%s mask should be single-bit", kind)
		}
	}
	union := MInt | MFloat
	if union.IsSingle() {
		t.Fatalf("union mask should not be single-bit")
	}
	if _, ok := union.Sole(); ok {
		t.Fatalf("Sole() should fail on a multi-bit mask")
	}
}
