package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestOptimizerRunAllReportsEveryPassInOrder(t *testing.T) {
	f := fn(&ast.Return{Value: &ast.IntLit{Value: 1}})
	m := module(f)

	reports := New().RunAll(m)

	require.Len(t, reports, 9)
	wantOrder := []string{
		"SimplifyCFG", "SimplifyScopes", "LocalProp", "CSE", "GVN",
		"SSAGVN", "LICM", "LoopUnroll", "RangeAnalysis",
	}
	for i, name := range wantOrder {
		require.Equal(t, name, reports[i].Pass)
	}
}

func TestOptimizerRunToFixpointStopsWhenNoChanges(t *testing.T) {
	f := fn(&ast.Return{Value: &ast.IntLit{Value: 1}})
	m := module(f)

	rounds := New().RunToFixpoint(m, 10)

	require.NotEmpty(t, rounds)
	require.Less(t, len(rounds), 10)
	last := rounds[len(rounds)-1]
	total := 0
	for _, r := range last {
		total += r.Changes
	}
	require.Equal(t, 0, total)
}

func TestOptimizerRunToFixpointConvergesOnNestedConstantFold(t *testing.T) {
	f := fn(&ast.If{
		Cond: &ast.BoolLit{Value: true},
		Then: []ast.Stmt{&ast.If{
			Cond: &ast.BoolLit{Value: false},
			Then: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 1}}},
			Else: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Value: 2}}},
		}},
	})
	m := module(f)

	New().RunToFixpoint(m, 10)

	require.Len(t, f.Body, 1)
	ret, ok := f.Body[0].(*ast.Return)
	require.True(t, ok)
	require.Equal(t, int64(2), ret.Value.(*ast.IntLit).Value)
}

func TestAnalyzeCountsNodesStmtsAndExprs(t *testing.T) {
	f := fn(&ast.Assign{
		Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}},
		Value:   &ast.BinaryOp{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}},
	})
	m := module(f)

	stats := Analyze(m)

	require.Equal(t, 1, stats.StmtsVisited)
	require.Equal(t, 3, stats.ExprsVisited) // BinaryOp + two IntLits
	require.Greater(t, stats.NodesVisited, stats.StmtsVisited+stats.ExprsVisited-1)
}
