package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestLICMHoistsInvariantAssignment(t *testing.T) {
	ws := &ast.While{
		Cond: &ast.Name{Ident: "running", Ctx: ast.Load},
		Body: []ast.Stmt{
			&ast.Assign{
				Targets: []ast.AssignTarget{&ast.Name{Ident: "k", Ctx: ast.Store}},
				Value:   &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}},
			},
			&ast.ExprStmt{Value: &ast.Name{Ident: "k", Ctx: ast.Load}},
		},
	}
	f := fn(ws)
	m := module(f)

	changes := (LICM{}).Run(m)

	require.Equal(t, 1, changes)
	require.Len(t, f.Body, 2)
	hoisted, ok := f.Body[0].(*ast.Assign)
	require.True(t, ok)
	name, ok := simpleAssignName(hoisted)
	require.True(t, ok)
	require.Equal(t, "k", name)
	require.Len(t, ws.Body, 1)
}

func TestLICMSkipsAssignmentDependingOnLoopWrite(t *testing.T) {
	ws := &ast.While{
		Cond: &ast.Name{Ident: "running", Ctx: ast.Load},
		Body: []ast.Stmt{
			&ast.Assign{
				Targets: []ast.AssignTarget{&ast.Name{Ident: "i", Ctx: ast.Store}},
				Value:   &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.Name{Ident: "i", Ctx: ast.Load}, Right: &ast.IntLit{Value: 1}},
			},
		},
	}
	f := fn(ws)
	m := module(f)

	changes := (LICM{}).Run(m)

	require.Equal(t, 0, changes)
	require.Len(t, ws.Body, 1)
}

func TestLICMSkipsNameWrittenMultipleTimes(t *testing.T) {
	ws := &ast.While{
		Cond: &ast.Name{Ident: "running", Ctx: ast.Load},
		Body: []ast.Stmt{
			&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "k", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 1}},
			&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "k", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 2}},
		},
	}
	f := fn(ws)
	m := module(f)

	changes := (LICM{}).Run(m)

	require.Equal(t, 0, changes)
}
