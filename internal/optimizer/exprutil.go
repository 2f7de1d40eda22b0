package optimizer

import (
	"fmt"
	"strings"

	"github.com/sunholo/pycc/internal/ast"
)

// hashExpr produces a structural key for e, stable across repeated calls
// on structurally identical trees and distinct for any structural
// difference. It is the shared fingerprint CSE, GVN, and SSAGVN key their
// value tables on. It hashes any expression, pure or not; those passes
// check IsPureExpr themselves before keying on it.
func hashExpr(e ast.Expr) string {
	if e == nil {
		return "<null>"
	}
	var sb strings.Builder
	writeHash(&sb, e)
	return sb.String()
}

func writeHash(sb *strings.Builder, e ast.Expr) {
	fmt.Fprintf(sb, "#%d:", int(e.Kind()))
	switch n := e.(type) {
	case *ast.IntLit:
		fmt.Fprintf(sb, "%d", n.Value)
	case *ast.FloatLit:
		fmt.Fprintf(sb, "%g", n.Value)
	case *ast.BoolLit:
		if n.Value {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	case *ast.StringLit:
		sb.WriteString(n.Value)
	case *ast.Name:
		sb.WriteString(n.Ident)
	case *ast.UnaryOp:
		sb.WriteString(string(n.Op))
		writeHash(sb, n.Operand)
	case *ast.BinaryOp:
		sb.WriteString(string(n.Op))
		writeHash(sb, n.Left)
		writeHash(sb, n.Right)
	case *ast.TupleLit:
		for _, el := range n.Elements {
			writeHash(sb, el)
		}
	case *ast.ListLit:
		for _, el := range n.Elements {
			writeHash(sb, el)
		}
	case *ast.Attribute:
		writeHash(sb, n.Base)
		sb.WriteByte('.')
		sb.WriteString(n.Attr)
	case *ast.Subscript:
		writeHash(sb, n.Base)
		sb.WriteByte('[')
		writeHash(sb, n.Index)
		sb.WriteByte(']')
	default:
		sb.WriteByte('?')
	}
}

// exprComplexity is a rough cost used to pick the most profitable
// candidate when several repeated subexpressions qualify for CSE (spec
// section 4.2.4: "the highest-complexity sub-expression occurring two or
// more times").
func exprComplexity(e ast.Expr) int {
	if e == nil {
		return 0
	}
	switch n := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit, *ast.Name:
		return 1
	case *ast.UnaryOp:
		return 1 + exprComplexity(n.Operand)
	case *ast.BinaryOp:
		return 1 + exprComplexity(n.Left) + exprComplexity(n.Right)
	case *ast.TupleLit:
		acc := 1
		for _, el := range n.Elements {
			acc += exprComplexity(el)
		}
		return acc
	case *ast.ListLit:
		acc := 1
		for _, el := range n.Elements {
			acc += exprComplexity(el)
		}
		return acc
	default:
		return 1
	}
}

// cloneExpr makes a structural copy of e, sufficient for the handful of
// expression kinds the CSE/loop-unrolling passes ever synthesize a fresh
// copy of. Returns nil for any kind it doesn't know how to clone, which
// callers treat as "give up on this rewrite".
func cloneExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLit:
		return &ast.IntLit{Value: n.Value}
	case *ast.FloatLit:
		return &ast.FloatLit{Value: n.Value}
	case *ast.BoolLit:
		return &ast.BoolLit{Value: n.Value}
	case *ast.StringLit:
		return &ast.StringLit{Value: n.Value}
	case *ast.Name:
		return &ast.Name{Ident: n.Ident, Ctx: ast.Load}
	case *ast.UnaryOp:
		operand := cloneExpr(n.Operand)
		if operand == nil {
			return nil
		}
		return &ast.UnaryOp{Op: n.Op, Operand: operand}
	case *ast.BinaryOp:
		l := cloneExpr(n.Left)
		r := cloneExpr(n.Right)
		if l == nil || r == nil {
			return nil
		}
		return &ast.BinaryOp{Op: n.Op, Left: l, Right: r}
	case *ast.TupleLit:
		elems := make([]ast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			c := cloneExpr(el)
			if c == nil {
				return nil
			}
			elems[i] = c
		}
		return &ast.TupleLit{Elements: elems}
	case *ast.ListLit:
		elems := make([]ast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			c := cloneExpr(el)
			if c == nil {
				return nil
			}
			elems[i] = c
		}
		return &ast.ListLit{Elements: elems}
	default:
		return nil
	}
}

// exprEqual is deep structural equality over the same expression kinds
// hashExpr covers; used once a hash collision narrows the candidates down
// to a pair that must actually be checked.
func exprEqual(a, b ast.Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *ast.IntLit:
		return x.Value == b.(*ast.IntLit).Value
	case *ast.FloatLit:
		return x.Value == b.(*ast.FloatLit).Value
	case *ast.BoolLit:
		return x.Value == b.(*ast.BoolLit).Value
	case *ast.StringLit:
		return x.Value == b.(*ast.StringLit).Value
	case *ast.Name:
		return x.Ident == b.(*ast.Name).Ident
	case *ast.UnaryOp:
		y := b.(*ast.UnaryOp)
		return x.Op == y.Op && exprEqual(x.Operand, y.Operand)
	case *ast.BinaryOp:
		y := b.(*ast.BinaryOp)
		return x.Op == y.Op && exprEqual(x.Left, y.Left) && exprEqual(x.Right, y.Right)
	case *ast.TupleLit:
		y := b.(*ast.TupleLit)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !exprEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.ListLit:
		y := b.(*ast.ListLit)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !exprEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.Attribute:
		y := b.(*ast.Attribute)
		return x.Attr == y.Attr && exprEqual(x.Base, y.Base)
	case *ast.Subscript:
		y := b.(*ast.Subscript)
		return exprEqual(x.Base, y.Base) && exprEqual(x.Index, y.Index)
	default:
		return false
	}
}

// simpleAssignName returns the single Name a simple "name = value" Assign
// targets, and ok=false for chained, destructuring, or complex targets.
func simpleAssignName(a *ast.Assign) (string, bool) {
	if len(a.Targets) != 1 {
		return "", false
	}
	name, ok := a.Targets[0].(*ast.Name)
	if !ok {
		return "", false
	}
	return name.Ident, true
}

// collectAssignedNames gathers every simple name assigned anywhere in
// stmts (top level only — callers that need a deeper scan recurse
// themselves), used to avoid temp-name collisions.
func collectAssignedNames(stmts []ast.Stmt) map[string]bool {
	names := make(map[string]bool)
	for _, s := range stmts {
		if a, ok := s.(*ast.Assign); ok {
			if name, ok := simpleAssignName(a); ok {
				names[name] = true
			}
		}
	}
	return names
}
