package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestRangeAnalysisTracksMinMaxPerName(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 3}},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: -1}},
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 9}},
	)
	m := module(f)

	intervals := (RangeAnalysis{}).Analyze(m)

	require.Equal(t, Interval{Min: -1, Max: 9}, intervals["x"])
}

func TestRangeAnalysisIgnoresNonIntAssigns(t *testing.T) {
	f := fn(
		&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "s", Ctx: ast.Store}}, Value: &ast.StringLit{Value: "hi"}},
	)
	m := module(f)

	intervals := (RangeAnalysis{}).Analyze(m)

	_, ok := intervals["s"]
	require.False(t, ok)
}

func TestRangeAnalysisRunMakesNoRewrites(t *testing.T) {
	f := fn(&ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: "x", Ctx: ast.Store}}, Value: &ast.IntLit{Value: 1}})
	m := module(f)

	changes := (RangeAnalysis{}).Run(m)

	require.Equal(t, 0, changes)
}
