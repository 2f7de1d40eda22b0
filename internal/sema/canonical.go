package sema

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// canonicalKey computes the stable string used for pure-expression
// equality and CSE/GVN hashing (spec section 3.1, section 4.2.4). It keys
// literals, Name loads, unary/binary ops and tuple/list literals whose
// parts are keyed, and attribute/subscript on any keyed base; it returns
// "" for everything else. A non-empty key therefore does not by itself
// mean the expression is pure.
func canonicalKey(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("i:%d", n.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("f:%g", n.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("b:%t", n.Value)
	case *ast.StringLit:
		return fmt.Sprintf("s:%d:%s", len(n.Value), n.Value)
	case *ast.BytesLit:
		return fmt.Sprintf("y:%d:%x", len(n.Value), n.Value)
	case *ast.NoneLit:
		return "n:"
	case *ast.Name:
		// A load of a name is pure in the sense CSE/GVN care about
		// (re-reading it twice in the same block yields the same
		// value); mutation invalidates the key via the optimizer's
		// EffectAlias oracle, not here.
		return "v:" + n.Ident
	case *ast.UnaryOp:
		inner := canonicalKey(n.Operand)
		if inner == "" {
			return ""
		}
		return fmt.Sprintf("u(%s,%s)", n.Op, inner)
	case *ast.BinaryOp:
		l := canonicalKey(n.Left)
		r := canonicalKey(n.Right)
		if l == "" || r == "" {
			return ""
		}
		return fmt.Sprintf("b(%s,%s,%s)", n.Op, l, r)
	case *ast.TupleLit:
		return canonicalAggregate("t", n.Elements)
	case *ast.ListLit:
		return canonicalAggregate("l", n.Elements)
	case *ast.Attribute:
		// Keyed whenever the base is keyed, whether or not the base is
		// an immutable literal (a Name base is keyed too).
		base := canonicalKey(n.Base)
		if base == "" {
			return ""
		}
		return fmt.Sprintf("a(%s,%s)", base, n.Attr)
	case *ast.Subscript:
		base := canonicalKey(n.Base)
		idx := canonicalKey(n.Index)
		if base == "" || idx == "" {
			return ""
		}
		return fmt.Sprintf("x(%s,%s)", base, idx)
	default:
		return ""
	}
}

func canonicalAggregate(tag string, elems []ast.Expr) string {
	s := tag + "["
	for i, el := range elems {
		k := canonicalKey(el)
		if k == "" {
			return ""
		}
		if i > 0 {
			s += ","
		}
		s += k
	}
	return s + "]"
}

// IsPure reports whether canonicalKey gives e a key (so Name loads count).
func IsPure(e ast.Expr) bool { return canonicalKey(e) != "" }
