package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func litAdd(a, b int64) *ast.BinaryOp {
	return &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: a}, Right: &ast.IntLit{Value: b}}
}

func TestSSAGVNReusesDominatingDefinitionForRepeatedLiteralExpr(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: litAdd(1, 2)},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "y", Ctx: ast.Store}}, Value: litAdd(1, 2)},
	)
	m := module(f)

	changes := (SSAGVN{}).Run(m)

	require.GreaterOrEqual(t, changes, 1)
	second := f.Body[1].(*ast.Assign)
	name, ok := second.Value.(*ast.Name)
	require.True(t, ok)
	require.Equal(t, "x", name.Ident)
}

func TestSSAGVNSkipsFunctionWithMultiplyWrittenName(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: litAdd(1, 2)},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: litAdd(3, 4)},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "y", Ctx: ast.Store}}, Value: litAdd(1, 2)},
	)
	m := module(f)

	changes := (SSAGVN{}).Run(m)

	require.Equal(t, 0, changes)
	third := f.Body[2].(*ast.Assign)
	_, stillBinary := third.Value.(*ast.BinaryOp)
	require.True(t, stillBinary)
}
