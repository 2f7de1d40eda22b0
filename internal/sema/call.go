package sema

import (
	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/diag"
	"github.com/sunholo/pycc/internal/types"
)

// typeCall implements call-site resolution in the order spec section
// 4.1.1 Call lays out: (1) a direct call to a name with a known function
// signature binds every parameter and reports arity/kind mismatches; (2) a
// call through a variable that sema tracked as polymorphic (assigned from
// more than one candidate function) unions the candidates' return kinds
// without binding parameters, since which one runs is not known until
// runtime; (3) `module.attr(...)` against the stdlib fast-path table
// checks only arity, since the shim's body is an external collaborator;
// `ClassName.method(...)` on a known class binds against that method's
// signature; (4) anything else is an opaque call the codegen treats as a
// dynamic dispatch, and is never a type error by itself.
func (a *Analyzer) typeCall(env *types.Env, call *ast.Call) types.Mask {
	for _, arg := range call.Args {
		a.typeExpr(env, arg)
	}
	for _, kw := range call.Kwargs {
		a.typeExpr(env, kw.Value)
	}
	if call.Star != nil {
		a.typeExpr(env, call.Star)
	}
	if call.DoubleStar != nil {
		a.typeExpr(env, call.DoubleStar)
	}

	switch fn := call.Func.(type) {
	case *ast.Name:
		if sig, ok := a.Sigs.Lookup(fn.Ident); ok {
			a.bindCall(call, sig)
			return sig.ReturnKind
		}
		if candidates, ok := a.Aliases[fn.Ident]; ok && len(candidates) > 0 {
			var ret types.Mask
			any := false
			for _, cname := range candidates {
				if sig, ok := a.Sigs.Lookup(cname); ok {
					ret = ret.Union(sig.ReturnKind)
					any = true
				}
			}
			if any {
				return ret
			}
		}
		a.typeExpr(env, fn)
		return 0

	case *ast.Attribute:
		a.typeExpr(env, fn.Base)
		if baseName, ok := fn.Base.(*ast.Name); ok {
			if surface, ok := a.Stdlib[baseName.Ident]; ok {
				if shim, ok := surface[fn.Attr]; ok {
					n := len(call.Args)
					if n < shim.MinArgs || (shim.MaxArgs >= 0 && n > shim.MaxArgs) {
						a.errorf(diag.TYP004, call.Pos, "%s.%s takes %s, got %d", baseName.Ident, fn.Attr, arityDesc(shim), n)
					}
					return shim.Return
				}
			}
			if ci, ok := a.Classes.Lookup(baseName.Ident); ok {
				if sig, ok := ci.Methods[fn.Attr]; ok {
					a.bindCall(call, sig)
					return sig.ReturnKind
				}
			}
		}
		return 0

	default:
		a.typeExpr(env, call.Func)
		return 0
	}
}

func arityDesc(s StdlibSignature) string {
	if s.MaxArgs < 0 {
		if s.MinArgs == 0 {
			return "any number of arguments"
		}
		return "at least that many arguments"
	}
	if s.MinArgs == s.MaxArgs {
		return "a fixed number of arguments"
	}
	return "a number of arguments in range"
}

// bindCall checks a resolved call's arguments against sig's parameter
// list (spec section 4.1.1 Parameter binding): the fast path for a
// simple positional signature just compares arity; the full path walks
// positional args against non-varargs parameters, routes the remainder
// into *args when present, matches keyword arguments by name (rejecting
// unknown names and positional-only targets), and confirms every
// required parameter without a default ends up bound.
func (a *Analyzer) bindCall(call *ast.Call, sig *types.Signature) {
	if sig.IsSimple() {
		want := len(sig.FullParams)
		if sig.FullParams == nil {
			want = len(sig.SimpleParams)
		}
		got := len(call.Args)
		if len(call.Kwargs) > 0 {
			a.errorf(diag.TYP004, call.Pos, "%s takes no keyword arguments", sig.Name)
			return
		}
		if got != want {
			a.errorf(diag.TYP004, call.Pos, "%s takes %d arguments, got %d", sig.Name, want, got)
		}
		return
	}

	bound := make(map[string]bool, len(sig.FullParams))
	argi := 0
	for _, p := range sig.FullParams {
		if p.IsVarArg || p.IsKwOnly || p.IsKwVarArg {
			continue
		}
		if argi < len(call.Args) {
			bound[p.Name] = true
			argi++
		}
	}
	// Remaining positional args spill into *args, if present.
	hasVarArg := false
	for _, p := range sig.FullParams {
		if p.IsVarArg {
			hasVarArg = true
		}
	}
	if argi < len(call.Args) && !hasVarArg {
		a.errorf(diag.TYP004, call.Pos, "%s takes too many positional arguments", sig.Name)
	}

	for _, kw := range call.Kwargs {
		found := false
		for _, p := range sig.FullParams {
			if p.Name == kw.Name {
				if p.IsPosOnly {
					a.errorf(diag.TYP004, call.Pos, "%s's parameter %q is positional-only", sig.Name, kw.Name)
				}
				bound[kw.Name] = true
				found = true
				break
			}
		}
		if !found {
			hasKwVarArg := false
			for _, p := range sig.FullParams {
				if p.IsKwVarArg {
					hasKwVarArg = true
				}
			}
			if !hasKwVarArg {
				a.errorf(diag.TYP004, call.Pos, "%s got an unexpected keyword argument %q", sig.Name, kw.Name)
			}
		}
	}

	if call.DoubleStar != nil || call.Star != nil {
		// Unpacked call arguments defer arity checking to runtime (spec
		// section 4.1.1: "a starred or double-starred call argument
		// disables static arity checking for that call").
		return
	}

	for _, p := range sig.FullParams {
		if p.IsVarArg || p.IsKwVarArg || p.HasDefault {
			continue
		}
		if !bound[p.Name] {
			a.errorf(diag.TYP005, call.Pos, "%s missing required argument %q", sig.Name, p.Name)
		}
	}
}
