package sema

import (
	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/types"
)

// builtinKindNames maps the builtin type names recognized by isinstance()
// checks to their mask bit (spec section 4.1.3: "isinstance(x, T) for a
// recognized builtin T").
var builtinKindNames = map[string]types.Mask{
	"int":       types.MInt,
	"float":     types.MFloat,
	"bool":      types.MBool,
	"str":       types.MStr,
	"list":      types.MList,
	"tuple":     types.MTuple,
	"dict":      types.MDict,
	"set":       types.MSet,
	"bytes":     types.MBytes,
	"bytearray": types.MByteArray,
}

// RefineCond computes the two environments that result from evaluating
// cond as true (then-branch) and false (else-branch), narrowing the
// masks of names the condition constrains (spec section 4.1.3). Any
// condition sema cannot interpret leaves both branches equal to env.
func RefineCond(env *types.Env, cond ast.Expr) (thenEnv, elseEnv *types.Env) {
	switch c := cond.(type) {
	case *ast.UnaryOp:
		if c.Op == ast.OpNot {
			t, e := RefineCond(env, c.Operand)
			return e, t
		}
		return env.Clone(), env.Clone()

	case *ast.BinaryOp:
		switch c.Op {
		case ast.OpAnd:
			lt, _ := RefineCond(env, c.Left)
			rt, _ := RefineCond(lt, c.Right)
			return rt, env.Clone()
		case ast.OpOr:
			_, le := RefineCond(env, c.Left)
			_, re := RefineCond(le, c.Right)
			return env.Clone(), re
		}
		return env.Clone(), env.Clone()

	case *ast.CompareChain:
		if len(c.Ops) == 1 {
			return refineSingleCompare(env, c.Left, c.Ops[0], c.Comparators[0])
		}
		return env.Clone(), env.Clone()

	case *ast.Call:
		if name, ok := c.Func.(*ast.Name); ok && name.Ident == "isinstance" && len(c.Args) == 2 {
			target, ok := c.Args[0].(*ast.Name)
			if !ok {
				return env.Clone(), env.Clone()
			}
			mask, ok := isinstanceMask(c.Args[1])
			if !ok {
				return env.Clone(), env.Clone()
			}
			t := env.Clone()
			t.RestrictToKind(target.Ident, mask)
			e := env.Clone()
			e.ExcludeKind(target.Ident, mask)
			return t, e
		}
		return env.Clone(), env.Clone()

	case *ast.Name:
		// A bare name in condition position (`if x:`) is truthy per
		// Python's object truthiness; sema does not narrow None-ness
		// from it since non-None objects can still be falsy (empty
		// string, 0, empty list).
		return env.Clone(), env.Clone()

	default:
		return env.Clone(), env.Clone()
	}
}

func isinstanceMask(arg ast.Expr) (types.Mask, bool) {
	switch a := arg.(type) {
	case *ast.Name:
		m, ok := builtinKindNames[a.Ident]
		return m, ok
	case *ast.TupleLit:
		var union types.Mask
		any := false
		for _, el := range a.Elements {
			if name, ok := el.(*ast.Name); ok {
				if m, ok := builtinKindNames[name.Ident]; ok {
					union = union.Union(m)
					any = true
				}
			}
		}
		return union, any
	default:
		return 0, false
	}
}

func refineSingleCompare(env *types.Env, left ast.Expr, op ast.CmpOp, right ast.Expr) (thenEnv, elseEnv *types.Env) {
	name, isName := left.(*ast.Name)
	other := right
	if !isName {
		if n2, ok := right.(*ast.Name); ok {
			name, isName, other = n2, true, left
		}
	}
	if !isName {
		return env.Clone(), env.Clone()
	}
	if !isNoneLiteral(other) {
		return env.Clone(), env.Clone()
	}

	t := env.Clone()
	e := env.Clone()
	switch op {
	case ast.CmpEq, ast.CmpIs:
		t.RestrictToKind(name.Ident, types.MNone)
		e.MarkNonNone(name.Ident)
	case ast.CmpNe, ast.CmpIsNot:
		t.MarkNonNone(name.Ident)
		e.RestrictToKind(name.Ident, types.MNone)
	default:
		return env.Clone(), env.Clone()
	}
	return t, e
}

func isNoneLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.NoneLit)
	return ok
}
