package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/types"
)

func intT() *ast.TypeKind {
	k := ast.TypeInt
	return &k
}

func TestAnalyzeModuleAcceptsWellTypedFunction(t *testing.T) {
	fn := &ast.FuncDef{
		Name:       "add",
		Params:     []*ast.Param{{Name: "a", Annotated: intT()}, {Name: "b", Annotated: intT()}},
		ReturnType: intT(),
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinaryOp{
				Op:    ast.OpAdd,
				Left:  &ast.Name{Ident: "a", Ctx: ast.Load},
				Right: &ast.Name{Ident: "b", Ctx: ast.Load},
			}},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	ok := a.AnalyzeModule(m)
	require.True(t, ok, "diagnostics: %v", a.Diags.Items())
}

func TestAnalyzeModuleRejectsUndefinedName(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Name{Ident: "missing", Ctx: ast.Load}},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	ok := a.AnalyzeModule(m)
	require.False(t, ok)
	require.NotEmpty(t, a.Diags.Items())
	require.Equal(t, "TYP002", a.Diags.Items()[0].Code)
}

func TestAnalyzeModuleRejectsMixedIntFloatArithmetic(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.Assign{
				Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}},
				Value: &ast.BinaryOp{
					Op:    ast.OpAdd,
					Left:  &ast.IntLit{Value: 1},
					Right: &ast.FloatLit{Value: 2.5},
				},
			},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	ok := a.AnalyzeModule(m)
	require.False(t, ok)
	found := false
	for _, d := range a.Diags.Items() {
		if d.Code == "TYP008" {
			found = true
		}
	}
	require.True(t, found, "expected a TYP008 ambiguity diagnostic, got %v", a.Diags.Items())
}

func TestAnalyzeModuleIfBranchJoinWidensMask(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "f",
		Params: []*ast.Param{
			{Name: "flag"},
		},
		Body: []ast.Stmt{
			&ast.If{
				Cond: &ast.Name{Ident: "flag", Ctx: ast.Load},
				Then: []ast.Stmt{
					&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 1}},
				},
				Else: []ast.Stmt{
					&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.StringLit{Value: "s"}},
				},
			},
			&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	ok := a.AnalyzeModule(m)
	require.True(t, ok, "diagnostics: %v", a.Diags.Items())
}

func TestAnalyzeModuleCallArityMismatch(t *testing.T) {
	callee := &ast.FuncDef{
		Name:   "one_arg",
		Params: []*ast.Param{{Name: "a"}},
		Body:   []ast.Stmt{&ast.Pass{}},
	}
	caller := &ast.FuncDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.Call{
				Func: &ast.Name{Ident: "one_arg", Ctx: ast.Load},
				Args: []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}},
			}},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{callee, caller}}

	a := NewAnalyzer()
	ok := a.AnalyzeModule(m)
	require.False(t, ok)
}

func TestAnalyzeModuleScansGeneratorFlag(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "gen",
		Body: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.Yield{Value: &ast.IntLit{Value: 1}}},
		},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	a.AnalyzeModule(m)
	require.True(t, a.FuncFlags[fn].IsGenerator)
}

func TestAnalyzeModuleMatchBuildsDecisionTree(t *testing.T) {
	match := &ast.Match{
		Subject: &ast.Name{Ident: "x", Ctx: ast.Load},
		Cases: []ast.MatchCase{
			{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 1}}, Body: []ast.Stmt{&ast.Pass{}}},
			{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 2}}, Body: []ast.Stmt{&ast.Pass{}}},
			{Pattern: &ast.WildcardPattern{}, Body: []ast.Stmt{&ast.Pass{}}},
		},
	}
	fn := &ast.FuncDef{
		Name:   "f",
		Params: []*ast.Param{{Name: "x"}},
		Body:   []ast.Stmt{match},
	}
	m := &ast.Module{Path: "m.py", Funcs: []*ast.FuncDef{fn}}

	a := NewAnalyzer()
	a.AnalyzeModule(m)
	tree, ok := a.MatchTrees[match]
	require.True(t, ok)
	require.IsType(t, &SwitchNode{}, tree)
}

func TestScanReturnParamIdxFindsForwardedParam(t *testing.T) {
	fn := &ast.FuncDef{
		Name:   "identity",
		Params: []*ast.Param{{Name: "x"}},
		Body: []ast.Stmt{
			&ast.If{
				Cond: &ast.BoolLit{Value: true},
				Then: []ast.Stmt{&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}}},
				Else: []ast.Stmt{&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}}},
			},
		},
	}
	require.Equal(t, 0, ScanReturnParamIdx(fn))
}

func TestScanReturnParamIdxDisagreementReturnsNegOne(t *testing.T) {
	fn := &ast.FuncDef{
		Name:   "f",
		Params: []*ast.Param{{Name: "x"}, {Name: "y"}},
		Body: []ast.Stmt{
			&ast.If{
				Cond: &ast.BoolLit{Value: true},
				Then: []ast.Stmt{&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}}},
				Else: []ast.Stmt{&ast.Return{Value: &ast.Name{Ident: "y", Ctx: ast.Load}}},
			},
		},
	}
	require.Equal(t, -1, ScanReturnParamIdx(fn))
}

func TestRefineCondNarrowsNoneCheck(t *testing.T) {
	env := types.NewEnv()
	env.Define("x", types.MInt|types.MNone, types.ProvParam)

	cond := &ast.CompareChain{
		Left:        &ast.Name{Ident: "x", Ctx: ast.Load},
		Ops:         []ast.CmpOp{ast.CmpIsNot},
		Comparators: []ast.Expr{&ast.NoneLit{}},
	}
	thenEnv, elseEnv := RefineCond(env, cond)

	thenMask, _ := thenEnv.Lookup("x")
	require.Equal(t, types.MInt, thenMask)

	elseMask, _ := elseEnv.Lookup("x")
	require.Equal(t, types.MNone, elseMask)
}
