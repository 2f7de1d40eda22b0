package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestSimplifyScopesDropsPass(t *testing.T) {
	f := fn(&ast.Pass{}, &ast.Return{Value: &ast.IntLit{Value: 1}})
	m := module(f)

	changes := (SimplifyScopes{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 1)
	_, ok := f.Body[0].(*ast.Return)
	require.True(t, ok)
}

func TestSimplifyScopesCollapsesIdenticalReturnBranches(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.Name{Ident: "cond", Ctx: ast.Load},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 7}}},
		Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 7}}},
	})
	m := module(f)

	changes := (SimplifyScopes{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 1)
	ret, ok := f.Body[0].(*ast.Return)
	require.True(t, ok)
	require.Equal(t, int64(7), ret.Value.(*ast.IntLit).Value)
}

func TestSimplifyScopesLeavesDifferingReturnsAlone(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.Name{Ident: "cond", Ctx: ast.Load},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 7}}},
		Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 8}}},
	})
	m := module(f)

	changes := (SimplifyScopes{}).Run(m)

	require.Equal(t, 0, changes)
	_, ok := f.Body[0].(*ast.If)
	require.True(t, ok)
}
