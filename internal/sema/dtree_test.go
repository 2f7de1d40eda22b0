package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestCanCompileToTreeRequiresTwoSpecificPatterns(t *testing.T) {
	cases := []ast.MatchCase{
		{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 1}}},
		{Pattern: &ast.WildcardPattern{}},
	}
	require.False(t, CanCompileToTree(cases))

	cases = append(cases, ast.MatchCase{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 2}}})
	require.True(t, CanCompileToTree(cases))
}

func TestDecisionTreeCompilerBuildsSwitchOverLiterals(t *testing.T) {
	cases := []ast.MatchCase{
		{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 1}}, Body: []ast.Stmt{&ast.Pass{}}},
		{Pattern: &ast.LiteralPattern{Value: &ast.IntLit{Value: 2}}, Body: []ast.Stmt{&ast.Pass{}}},
		{Pattern: &ast.WildcardPattern{}, Body: []ast.Stmt{&ast.Pass{}}},
	}
	tree := NewDecisionTreeCompiler(cases).Compile()

	sw, ok := tree.(*SwitchNode)
	require.True(t, ok, "expected a SwitchNode, got %T", tree)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Default)
}

func TestDecisionTreeCompilerAllWildcardsCollapsesToLeaf(t *testing.T) {
	cases := []ast.MatchCase{
		{Pattern: &ast.NamePattern{Name: "x"}, Body: []ast.Stmt{&ast.Pass{}}},
	}
	tree := NewDecisionTreeCompiler(cases).Compile()
	leaf, ok := tree.(*LeafNode)
	require.True(t, ok, "expected a LeafNode, got %T", tree)
	require.Equal(t, 0, leaf.ArmIndex)
}

func TestDecisionTreeCompilerEmptyCasesFails(t *testing.T) {
	tree := NewDecisionTreeCompiler(nil).Compile()
	_, ok := tree.(*FailNode)
	require.True(t, ok)
}

func TestDecisionTreeCompilerSpecializesClassPattern(t *testing.T) {
	cases := []ast.MatchCase{
		{
			Pattern: &ast.ClassPattern{
				ClassName:  "Point",
				Positional: []ast.Pattern{&ast.LiteralPattern{Value: &ast.IntLit{Value: 0}}, &ast.WildcardPattern{}},
			},
			Body: []ast.Stmt{&ast.Pass{}},
		},
		{
			Pattern: &ast.ClassPattern{ClassName: "Circle"},
			Body:    []ast.Stmt{&ast.Pass{}},
		},
	}
	tree := NewDecisionTreeCompiler(cases).Compile()
	sw, ok := tree.(*SwitchNode)
	require.True(t, ok)
	require.Contains(t, sw.Cases, "Point")
	require.Contains(t, sw.Cases, "Circle")
}
