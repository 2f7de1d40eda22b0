package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestLocalPropInlinesConstantAssign(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 5}},
		&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}},
	)
	m := module(f)

	changes := (LocalProp{}).Run(m)

	require.Equal(t, 1, changes)
	ret := f.Body[1].(*ast.Return)
	lit, ok := ret.Value.(*ast.IntLit)
	require.True(t, ok)
	require.Equal(t, int64(5), lit.Value)
}

func TestLocalPropFollowsAliasChain(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "y", Ctx: ast.Store}}, Value: &ast.Name{Ident: "x", Ctx: ast.Load}},
		&ast.Return{Value: &ast.Name{Ident: "y", Ctx: ast.Load}},
	)
	m := module(f)

	changes := (LocalProp{}).Run(m)

	require.Equal(t, 1, changes)
	ret := f.Body[1].(*ast.Return)
	name, ok := ret.Value.(*ast.Name)
	require.True(t, ok)
	require.Equal(t, "x", name.Ident)
}

func TestLocalPropDoesNotCrossBranchBoundary(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 1}},
		&ast.If{
			Cond: &ast.Name{Ident: "cond", Ctx: ast.Load},
			Then: []ast.Stmt{&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}}},
		},
	)
	m := module(f)

	changes := (LocalProp{}).Run(m)

	require.Equal(t, 0, changes)
	ifStmt := f.Body[1].(*ast.If)
	ret := ifStmt.Then[0].(*ast.Return)
	_, ok := ret.Value.(*ast.Name)
	require.True(t, ok)
}

func TestLocalPropKillsOnReassignment(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 1}},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.Call{Func: &ast.Name{Ident: "f", Ctx: ast.Load}}},
		&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}},
	)
	m := module(f)

	changes := (LocalProp{}).Run(m)

	require.Equal(t, 0, changes)
	ret := f.Body[2].(*ast.Return)
	_, ok := ret.Value.(*ast.Name)
	require.True(t, ok)
}
