package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestCSERemovesDuplicatePureExprStmts(t *testing.T) {
	dup := &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	dup2 := &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	f := fn(&ast.ExprStmt{Value: dup}, &ast.ExprStmt{Value: dup2})
	m := module(f)

	changes := (CSE{}).Run(m)

	require.GreaterOrEqual(t, changes, 1)
	require.Len(t, f.Body, 1)
}

func TestCSEHoistsRepeatedSubexprIntoTemp(t *testing.T) {
	repeated := func() *ast.BinaryOp {
		return &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	}
	// (1+2) * (1+2)
	f := fn(&ast.Assign{
		Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}},
		Value:   &ast.BinaryOp{Op: ast.OpMul, Left: repeated(), Right: repeated()},
	})
	m := module(f)

	changes := (CSE{}).Run(m)

	require.GreaterOrEqual(t, changes, 1)
	require.Len(t, f.Body, 2)
	tempAssign, ok := f.Body[0].(*ast.Assign)
	require.True(t, ok)
	name, ok := simpleAssignName(tempAssign)
	require.True(t, ok)
	require.Contains(t, name, "_cse")
}

func TestCSEIsIdempotent(t *testing.T) {
	repeated := func() *ast.BinaryOp {
		return &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.Name{Ident: "a", Ctx: ast.Load}, Right: &ast.Name{Ident: "b", Ctx: ast.Load}}
	}
	f := fn(&ast.Assign{
		Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}},
		Value:   &ast.BinaryOp{Op: ast.OpMul, Left: repeated(), Right: repeated()},
	})
	m := module(f)

	(CSE{}).Run(m)
	changes := (CSE{}).Run(m)

	require.Equal(t, 0, changes)
}
