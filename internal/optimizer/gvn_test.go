package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestGVNCountsExpressionsAndClasses(t *testing.T) {
	dup1 := &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	dup2 := &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}
	distinct := &ast.IntLit{Value: 3}
	f := fn(
		&ast.ExprStmt{Value: dup1},
		&ast.ExprStmt{Value: dup2},
		&ast.ExprStmt{Value: distinct},
	)
	m := module(f)

	result := (GVN{}).Analyze(m)

	require.Equal(t, 3, result.Expressions)
	require.Equal(t, 2, result.Classes)
}

func TestGVNRunMakesNoRewrites(t *testing.T) {
	f := fn(&ast.ExprStmt{Value: &ast.IntLit{Value: 1}})
	m := module(f)

	changes := (GVN{}).Run(m)

	require.Equal(t, 0, changes)
}
