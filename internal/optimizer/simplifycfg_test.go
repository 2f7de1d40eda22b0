package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func fn(body ...ast.Stmt) *ast.FuncDef {
	return &ast.FuncDef{Name: "f", Body: body}
}

func module(fns ...*ast.FuncDef) *ast.Module {
	return &ast.Module{Funcs: fns}
}

func TestSimplifyCFGFoldsTrueBranch(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.BoolLit{Value: true},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 1}}},
		Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 2}}},
	})
	m := module(f)

	changes := (SimplifyCFG{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 1)
	ret, ok := f.Body[0].(*ast.Return)
	require.True(t, ok)
	require.Equal(t, int64(1), ret.Value.(*ast.IntLit).Value)
}

func TestSimplifyCFGFoldsFalseBranch(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.BoolLit{Value: false},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 1}}},
		Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 2}}},
	})
	m := module(f)

	changes := (SimplifyCFG{}).Run(m)

	require.Equal(t, 1, changes)
	ret := f.Body[0].(*ast.Return)
	require.Equal(t, int64(2), ret.Value.(*ast.IntLit).Value)
}

func TestSimplifyCFGLeavesNonConstCondAlone(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.Name{Ident: "cond", Ctx: ast.Load},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 1}}},
		Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 2}}},
	})
	m := module(f)

	changes := (SimplifyCFG{}).Run(m)

	require.Equal(t, 0, changes)
	require.Len(t, f.Body, 1)
	_, ok := f.Body[0].(*ast.If)
	require.True(t, ok)
}

func TestSimplifyCFGIsIdempotent(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.BoolLit{Value: true},
		Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 1}}},
	})
	m := module(f)

	(SimplifyCFG{}).Run(m)
	changes := (SimplifyCFG{}).Run(m)

	require.Equal(t, 0, changes)
}
