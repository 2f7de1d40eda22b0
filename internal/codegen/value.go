// Package codegen lowers a sema-annotated, optimizer-rewritten ast.Module
// to LLVM IR text and drives an external toolchain to produce assembly,
// an object file, or a linked binary (spec section 4.3).
package codegen

import "github.com/sunholo/pycc/internal/ast"

// ValueKind is the LLVM-level representation an SSA value is carried in.
// Every typed kind (spec section 3.2) lowers to one of these four (spec
// section 4.3.2 "Value kinds").
type ValueKind int

const (
	KindI32 ValueKind = iota
	KindI1
	KindF64
	KindPtr
)

func (k ValueKind) llvm() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI1:
		return "i1"
	case KindF64:
		return "double"
	default:
		return "ptr"
	}
}

// PointerTag narrows what a Ptr-kind value actually points to, so calls
// like `len` can pick the right runtime entry point without a runtime
// type test (spec section 4.3.2). Tags propagate from literal kinds,
// through name-to-name assignment, and across a call boundary via
// sema's returnParamIdx scan.
type PointerTag int

const (
	TagUnknown PointerTag = iota
	TagStr
	TagList
	TagDict
	TagObject
)

// Value is the lowering result of one expression: its SSA register name
// (or a literal constant rendered inline), the kind it's carried in, and
// — for Ptr values — the tag tracking what it points to.
type Value struct {
	Name string // e.g. "%t3", or a literal like "42", "1", "0x...".
	Kind ValueKind
	Tag  PointerTag
}

func valueKindOf(t ast.TypeKind) ValueKind {
	switch t {
	case ast.TypeInt:
		return KindI32
	case ast.TypeFloat:
		return KindF64
	case ast.TypeBool:
		return KindI1
	default:
		return KindPtr
	}
}

func pointerTagOf(t ast.TypeKind) PointerTag {
	switch t {
	case ast.TypeStr:
		return TagStr
	case ast.TypeList, ast.TypeTuple, ast.TypeSet:
		return TagList
	case ast.TypeDict:
		return TagDict
	default:
		return TagUnknown
	}
}
