// Package ast defines the node taxonomy that pycc's sema, optimizer, and
// codegen packages walk. The AST itself is produced by an external parser
// (out of scope for this module, see spec.md section 1); this package only
// declares the shape that parser is expected to hand back.
package ast

import "fmt"

// NodeKind tags every node with its concrete shape, so that passes which
// need a cheap discriminator (canonical-key hashing, decision-tree
// specialization, debug-metadata dispatch) do not have to fall back to a
// Go type switch every time. Match-pattern nodes report KindUnknown.
type NodeKind int

const (
	KindUnknown NodeKind = iota

	// Literals
	KindIntLit
	KindFloatLit
	KindBoolLit
	KindStringLit
	KindBytesLit
	KindNoneLit
	KindEllipsisLit
	KindImaginaryLit
	KindFStringLit

	// Variables & access
	KindName
	KindAttribute
	KindSubscript
	KindNamedExpr

	// Operators
	KindBinaryOp
	KindUnaryOp
	KindCompareChain

	// Calls
	KindCall

	// Aggregates
	KindTupleLit
	KindListLit
	KindSetLit
	KindDictLit
	KindObjectLit

	// Control expressions
	KindLambda
	KindIfExpr
	KindAwait
	KindYield
	KindComprehension

	// Statements
	KindExprStmt
	KindAssign
	KindAugAssign
	KindReturn
	KindIf
	KindWhile
	KindFor
	KindBreak
	KindContinue
	KindPass
	KindTry
	KindWith
	KindRaise
	KindGlobal
	KindNonlocal
	KindAssert
	KindDel
	KindImport
	KindImportFrom
	KindClassDef
	KindFuncDef
	KindMatch
)

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

var nodeKindNames = map[NodeKind]string{
	KindIntLit:        "IntLit",
	KindFloatLit:      "FloatLit",
	KindBoolLit:       "BoolLit",
	KindStringLit:     "StringLit",
	KindBytesLit:      "BytesLit",
	KindNoneLit:       "NoneLit",
	KindEllipsisLit:   "EllipsisLit",
	KindImaginaryLit:  "ImaginaryLit",
	KindFStringLit:    "FStringLit",
	KindName:          "Name",
	KindAttribute:     "Attribute",
	KindSubscript:     "Subscript",
	KindNamedExpr:     "NamedExpr",
	KindBinaryOp:      "BinaryOp",
	KindUnaryOp:       "UnaryOp",
	KindCompareChain:  "CompareChain",
	KindCall:          "Call",
	KindTupleLit:      "TupleLit",
	KindListLit:       "ListLit",
	KindSetLit:        "SetLit",
	KindDictLit:       "DictLit",
	KindObjectLit:     "ObjectLit",
	KindLambda:        "Lambda",
	KindIfExpr:        "IfExpr",
	KindAwait:         "Await",
	KindYield:         "Yield",
	KindComprehension: "Comprehension",
	KindExprStmt:      "ExprStmt",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindReturn:        "Return",
	KindIf:            "If",
	KindWhile:         "While",
	KindFor:           "For",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindPass:          "Pass",
	KindTry:           "Try",
	KindWith:          "With",
	KindRaise:         "Raise",
	KindGlobal:        "Global",
	KindNonlocal:      "Nonlocal",
	KindAssert:        "Assert",
	KindDel:           "Del",
	KindImport:        "Import",
	KindImportFrom:    "ImportFrom",
	KindClassDef:      "ClassDef",
	KindFuncDef:       "FuncDef",
	KindMatch:         "Match",
}

// Pos is a source location. Every node carries one (spec section 3.1).
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col) }

// TypeKind is a single inferred type kind, as recorded by sema on every
// expression node. It is distinct from types.Mask (a bitmask over these
// kinds used while a union is still being computed); once sema settles on
// a result it narrows to one TypeKind, or leaves it zero if inference
// produced an unresolved union that codegen must treat as Ptr/opaque.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeNone
	TypeInt
	TypeFloat
	TypeBool
	TypeStr
	TypeList
	TypeTuple
	TypeDict
	TypeSet
	TypeBytes
	TypeByteArray
)

func (t TypeKind) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeStr:
		return "Str"
	case TypeList:
		return "List"
	case TypeTuple:
		return "Tuple"
	case TypeDict:
		return "Dict"
	case TypeSet:
		return "Set"
	case TypeBytes:
		return "Bytes"
	case TypeByteArray:
		return "ByteArray"
	default:
		return "Unknown"
	}
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Position() Pos
	String() string
}

// Expr is implemented by expression nodes. Sema annotates them in place
// with an inferred Type and, for pure expressions, a CanonicalKey.
type Expr interface {
	Node
	exprNode()
	// Annotated returns the mutable annotation block every expression
	// node embeds, so sema/optimizer can read and write it uniformly
	// without a type switch.
	Annotated() *Annotation
}

// Annotation is the mutable inference result attached to every expression
// node. Embedding it (rather than hanging a side-table off the module)
// keeps sema's single walk able to write directly into the tree, matching
// "annotates expressions with types ... in place" from spec section 2.
type Annotation struct {
	Type         TypeKind
	CanonicalKey string // empty if the expression is impure or not yet keyed
}

func (a *Annotation) Annotated() *Annotation { return a }

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is implemented by match-statement pattern nodes.
type Pattern interface {
	Node
	patternNode()
}
