package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func rangeCall(args ...int64) *ast.Call {
	exprArgs := make([]ast.Expr, len(args))
	for i, a := range args {
		exprArgs[i] = &ast.IntLit{Value: a}
	}
	return &ast.Call{Func: &ast.Name{Ident: "range", Ctx: ast.Load}, Args: exprArgs}
}

func TestLoopUnrollExpandsSmallRangeLoop(t *testing.T) {
	forStmt := &ast.For{
		Target: &ast.Name{Ident: "i", Ctx: ast.Store},
		Iter:   rangeCall(3),
		Body:   []ast.Stmt{&ast.ExprStmt{Value: &ast.Name{Ident: "i", Ctx: ast.Load}}},
	}
	f := fn(forStmt)
	m := module(f)

	changes := (LoopUnroll{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 6) // 3 iterations * (assign i=k, exprstmt)
	assign0, ok := f.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, int64(0), assign0.Value.(*ast.IntLit).Value)
}

func TestLoopUnrollSkipsLargeIterationCount(t *testing.T) {
	forStmt := &ast.For{
		Target: &ast.Name{Ident: "i", Ctx: ast.Store},
		Iter:   rangeCall(100),
		Body:   []ast.Stmt{&ast.ExprStmt{Value: &ast.Name{Ident: "i", Ctx: ast.Load}}},
	}
	f := fn(forStmt)
	m := module(f)

	changes := (LoopUnroll{}).Run(m)

	require.Equal(t, 0, changes)
	require.Len(t, f.Body, 1)
	_, ok := f.Body[0].(*ast.For)
	require.True(t, ok)
}

func TestLoopUnrollRemovesDeadLoopWithNonPositiveRange(t *testing.T) {
	forStmt := &ast.For{
		Target: &ast.Name{Ident: "i", Ctx: ast.Store},
		Iter:   rangeCall(5, 5),
		Body:   []ast.Stmt{&ast.ExprStmt{Value: &ast.Name{Ident: "i", Ctx: ast.Load}}},
		Else:   []ast.Stmt{&ast.ExprStmt{Value: &ast.IntLit{Value: 9}}},
	}
	f := fn(forStmt)
	m := module(f)

	changes := (LoopUnroll{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 1)
	es, ok := f.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	require.Equal(t, int64(9), es.Value.(*ast.IntLit).Value)
}
