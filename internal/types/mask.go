// Package types implements pycc's closed type-kind lattice: a bitmask
// over a fixed set of kinds (spec section 3.2), the environment that maps
// names to (mask, provenance) used by sema, and the Signature/ClassInfo
// tables that back call resolution (spec section 3.3).
package types

import (
	"sort"
	"strings"

	"github.com/sunholo/pycc/internal/ast"
)

// Mask is a bitmask over the closed set of type kinds. A mask with a
// single bit set is a concrete kind; a multi-bit mask is a finite union
// produced by a branch join, a disjunctive condition, or an ambiguous
// literal (spec section 3.2).
type Mask uint16

const (
	MNone Mask = 1 << iota
	MInt
	MFloat
	MBool
	MStr
	MList
	MTuple
	MDict
	MSet
	MBytes
	MByteArray
)

// MAll is the union of every concrete kind.
const MAll = MNone | MInt | MFloat | MBool | MStr | MList | MTuple | MDict | MSet | MBytes | MByteArray

var maskNames = []struct {
	bit  Mask
	name string
}{
	{MNone, "None"}, {MInt, "Int"}, {MFloat, "Float"}, {MBool, "Bool"},
	{MStr, "Str"}, {MList, "List"}, {MTuple, "Tuple"}, {MDict, "Dict"},
	{MSet, "Set"}, {MBytes, "Bytes"}, {MByteArray, "ByteArray"},
}

// IsSingle reports whether the mask has exactly one bit set.
func (m Mask) IsSingle() bool { return m != 0 && m&(m-1) == 0 }

// Has reports whether m contains every bit of sub.
func (m Mask) Has(sub Mask) bool { return m&sub == sub }

// Intersects reports whether m and other share at least one bit.
func (m Mask) Intersects(other Mask) bool { return m&other != 0 }

// Union returns the bitwise union of m and other.
func (m Mask) Union(other Mask) Mask { return m | other }

// Exclude removes the bits of other from m.
func (m Mask) Exclude(other Mask) Mask { return m &^ other }

// Restrict keeps only the bits also set in other.
func (m Mask) Restrict(other Mask) Mask { return m & other }

// Sole returns the single TypeKind this mask denotes, and true, when the
// mask has exactly one bit set.
func (m Mask) Sole() (ast.TypeKind, bool) {
	if !m.IsSingle() {
		return ast.TypeUnknown, false
	}
	switch m {
	case MNone:
		return ast.TypeNone, true
	case MInt:
		return ast.TypeInt, true
	case MFloat:
		return ast.TypeFloat, true
	case MBool:
		return ast.TypeBool, true
	case MStr:
		return ast.TypeStr, true
	case MList:
		return ast.TypeList, true
	case MTuple:
		return ast.TypeTuple, true
	case MDict:
		return ast.TypeDict, true
	case MSet:
		return ast.TypeSet, true
	case MBytes:
		return ast.TypeBytes, true
	case MByteArray:
		return ast.TypeByteArray, true
	}
	return ast.TypeUnknown, false
}

// FromKind converts a single TypeKind to its Mask bit.
func FromKind(k ast.TypeKind) Mask {
	switch k {
	case ast.TypeNone:
		return MNone
	case ast.TypeInt:
		return MInt
	case ast.TypeFloat:
		return MFloat
	case ast.TypeBool:
		return MBool
	case ast.TypeStr:
		return MStr
	case ast.TypeList:
		return MList
	case ast.TypeTuple:
		return MTuple
	case ast.TypeDict:
		return MDict
	case ast.TypeSet:
		return MSet
	case ast.TypeBytes:
		return MBytes
	case ast.TypeByteArray:
		return MByteArray
	default:
		return 0
	}
}

// String renders a mask as e.g. "Float|Int" (kind names in alphabetical
// order) for diagnostics.
func (m Mask) String() string {
	if m == 0 {
		return "<empty>"
	}
	var names []string
	for _, e := range maskNames {
		if m.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
