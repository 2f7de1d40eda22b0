package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func assignInt(name string, val int64) *ast.Assign {
	return &ast.Assign{
		Targets: []ast.AssignTarget{&ast.Name{Ident: name, Ctx: ast.Store}},
		Value:   &ast.IntLit{Value: val},
	}
}

func TestBuildIfJoinProducesPhiForVarAssignedInBothBranches(t *testing.T) {
	body := []ast.Stmt{
		&ast.If{
			Cond: &ast.IntLit{Value: 1},
			Then: []ast.Stmt{assignInt("x", 1)},
			Else: []ast.Stmt{assignInt("x", 2)},
		},
	}
	f := NewBuilder().Build(body)

	found := false
	for _, blk := range f.Blocks {
		if len(blk.Pred) < 2 {
			continue
		}
		for _, phi := range blk.Phis {
			if phi.Var == "x" {
				found = true
			}
		}
	}
	require.True(t, found, "expected a phi for x at some join block")
}

func TestBuildWhileHeaderHasBackEdgeAndPhi(t *testing.T) {
	whileStmt := &ast.While{
		Cond: &ast.IntLit{Value: 1},
		Body: []ast.Stmt{assignInt("x", 1)},
	}
	body := []ast.Stmt{
		assignInt("x", 0),
		whileStmt,
	}
	f := NewBuilder().Build(body)

	headerID := -1
	for _, blk := range f.Blocks {
		for _, s := range blk.Stmts {
			if s == ast.Stmt(whileStmt) {
				headerID = blk.ID
			}
		}
	}
	require.GreaterOrEqual(t, headerID, 0)
	require.GreaterOrEqual(t, len(f.Blocks[headerID].Pred), 2)

	found := false
	for _, phi := range f.Blocks[headerID].Phis {
		if phi.Var == "x" {
			found = true
		}
	}
	require.True(t, found, "expected a phi for x at the while header")
}

func TestBuildForHeaderHasBackEdge(t *testing.T) {
	forStmt := &ast.For{
		Target: &ast.Name{Ident: "i", Ctx: ast.Store},
		Iter:   &ast.Name{Ident: "r", Ctx: ast.Load},
		Body:   []ast.Stmt{assignInt("y", 9)},
	}
	f := NewBuilder().Build([]ast.Stmt{forStmt})

	headerID := -1
	for _, blk := range f.Blocks {
		for _, s := range blk.Stmts {
			if s == ast.Stmt(forStmt) {
				headerID = blk.ID
			}
		}
	}
	require.GreaterOrEqual(t, headerID, 0)

	backEdge := false
	for _, pred := range f.Blocks[headerID].Pred {
		for _, s := range f.Blocks[pred].Stmts {
			if s == forStmt.Body[0] {
				backEdge = true
			}
		}
	}
	require.True(t, backEdge, "expected the for header to have a back-edge from its own body")
}

func TestBuildReturnHasNoSuccessors(t *testing.T) {
	ret := &ast.Return{Value: &ast.IntLit{Value: 0}}
	f := NewBuilder().Build([]ast.Stmt{ret})

	for _, blk := range f.Blocks {
		for _, s := range blk.Stmts {
			if s == ast.Stmt(ret) {
				require.Empty(t, blk.Succ)
			}
		}
	}
}

func TestComputeDominatorsDiamond(t *testing.T) {
	body := []ast.Stmt{
		&ast.If{
			Cond: &ast.IntLit{Value: 1},
			Then: []ast.Stmt{assignInt("x", 1)},
			Else: []ast.Stmt{assignInt("x", 2)},
		},
		&ast.Return{Value: &ast.Name{Ident: "x", Ctx: ast.Load}},
	}
	f := NewBuilder().Build(body)
	dt := ComputeDominators(f)

	require.Equal(t, -1, dt.Idom[0])
	for i := 1; i < len(f.Blocks); i++ {
		require.GreaterOrEqual(t, dt.Idom[i], 0, "block %d should have a real dominator", i)
	}
}

func TestComputeDominatorsEmptyFunction(t *testing.T) {
	dt := ComputeDominators(&Function{})
	require.Empty(t, dt.Idom)
	require.Empty(t, dt.Children)
}
