// Package optimizer implements the AST-rewriting passes that run between
// sema and codegen (spec section 4.2.4): CFG/scope simplification, copy
// and constant propagation, common/global value numbering, loop-invariant
// code motion, bounded loop unrolling, and a range-tracking analysis. Each
// pass walks the module in place and reports how many rewrites it made.
package optimizer

import "github.com/sunholo/pycc/internal/ast"

// IsPureExpr reports whether e can be safely duplicated, reordered, or
// dropped (its evaluation has no side effect and always yields the same
// value given the same bindings): a literal; an attribute or subscript on
// an immutable literal base; a unary/binary whose operands are pure; or a
// pure tuple/list literal. Everything else — calls, name reads, generic
// attribute/subscript, comprehensions — is conservatively impure. This is
// deliberately a standalone helper rather than a reuse of sema's
// canonical-key pass: sema keys pure *name reads* too (for propagation
// within a single block), but the optimizer's passes need the stricter
// "may duplicate across the whole function" rule, so the two are kept
// separate on purpose.
func IsPureExpr(e ast.Expr) bool {
	if e == nil {
		return true
	}
	switch n := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit, *ast.NoneLit:
		return true
	case *ast.Attribute:
		if n.Base == nil {
			return false
		}
		return isImmutableLiteralBase(n.Base)
	case *ast.Subscript:
		if n.Base == nil {
			return false
		}
		if !isImmutableLiteralBase(n.Base) {
			return false
		}
		return IsPureExpr(n.Index)
	case *ast.UnaryOp:
		return IsPureExpr(n.Operand)
	case *ast.BinaryOp:
		return IsPureExpr(n.Left) && IsPureExpr(n.Right)
	case *ast.TupleLit:
		return allPure(n.Elements)
	case *ast.ListLit:
		return allPure(n.Elements)
	default:
		return false
	}
}

func isImmutableLiteralBase(e ast.Expr) bool {
	switch e.(type) {
	case *ast.StringLit, *ast.TupleLit, *ast.BytesLit:
		return true
	default:
		return false
	}
}

func allPure(es []ast.Expr) bool {
	for _, e := range es {
		if !IsPureExpr(e) {
			return false
		}
	}
	return true
}

// IsEffectfulStmt reports whether stmt must keep its position relative to
// other effectful statements: an ExprStmt is effectful only when its
// value isn't pure; Assign and Return always are (they mutate program
// state or hand back a result); every other statement kind is
// conservatively effectful, including control flow.
func IsEffectfulStmt(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return !IsPureExpr(s.Value)
	case *ast.Assign, *ast.Return:
		return true
	default:
		return true
	}
}
