package sema

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// DecisionTree is a compiled match statement: a tree of discriminator
// tests that avoids re-testing a value against a pattern it has already
// failed (spec section 4.1.2 Match), built with the matrix-based
// algorithm common to ML-family pattern compilers.
type DecisionTree interface {
	isDecisionTree()
	String() string
}

// LeafNode is a successful match: run case ArmIndex's body (and, if
// Guard is non-nil, only after Guard evaluates true — a failing guard
// falls through to whatever the tree tries next).
type LeafNode struct {
	ArmIndex int
	Body     []ast.Stmt
	Guard    ast.Expr
}

func (l *LeafNode) isDecisionTree() {}
func (l *LeafNode) String() string  { return fmt.Sprintf("Leaf(arm=%d)", l.ArmIndex) }

// FailNode means no case matches (a non-exhaustive match reaching this
// point raises at runtime, spec section 4.1.2 Match: "non-exhaustive
// match with no wildcard raises an exception").
type FailNode struct{}

func (f *FailNode) isDecisionTree() {}
func (f *FailNode) String() string  { return "Fail" }

// SwitchNode dispatches on the runtime shape of the value at Path (a
// sequence of subscript/field indices from the match subject) across the
// concrete class names / literal values in Cases, falling back to
// Default for anything a wildcard or bare name pattern would catch.
type SwitchNode struct {
	Path    []int
	Cases   map[interface{}]DecisionTree
	Default DecisionTree
}

func (s *SwitchNode) isDecisionTree() {}
func (s *SwitchNode) String() string {
	return fmt.Sprintf("Switch(path=%v, cases=%d, default=%v)", s.Path, len(s.Cases), s.Default != nil)
}

// DecisionTreeCompiler turns a match statement's cases into a
// DecisionTree.
type DecisionTreeCompiler struct {
	cases []ast.MatchCase
}

// NewDecisionTreeCompiler creates a compiler for the given case list.
func NewDecisionTreeCompiler(cases []ast.MatchCase) *DecisionTreeCompiler {
	return &DecisionTreeCompiler{cases: cases}
}

// Compile builds the decision tree for the compiler's case list.
func (c *DecisionTreeCompiler) Compile() DecisionTree {
	matrix := make([]matchRow, len(c.cases))
	for i, mc := range c.cases {
		matrix[i] = matchRow{
			patterns: []ast.Pattern{mc.Pattern},
			armIndex: i,
			guard:    mc.Guard,
			body:     mc.Body,
		}
	}
	return c.compileMatrix(matrix, nil)
}

type matchRow struct {
	patterns []ast.Pattern
	armIndex int
	guard    ast.Expr
	body     []ast.Stmt
}

func (c *DecisionTreeCompiler) compileMatrix(matrix []matchRow, path []int) DecisionTree {
	if len(matrix) == 0 {
		return &FailNode{}
	}
	if c.isDefaultRow(matrix[0]) {
		return leafOf(matrix[0])
	}

	colIndex := 0
	if colIndex >= len(matrix[0].patterns) {
		return leafOf(matrix[0])
	}
	return c.buildSwitch(matrix, path, colIndex)
}

func leafOf(row matchRow) *LeafNode {
	return &LeafNode{ArmIndex: row.armIndex, Body: row.body, Guard: row.guard}
}

// isDefaultRow reports whether every column of row is a wildcard or a
// bare-name binding pattern, i.e. it matches unconditionally.
func (c *DecisionTreeCompiler) isDefaultRow(row matchRow) bool {
	for _, pat := range row.patterns {
		switch pat.(type) {
		case *ast.WildcardPattern, *ast.NamePattern:
			continue
		default:
			return false
		}
	}
	return true
}

// buildSwitch groups matrix by the discriminator found in column
// colIndex and recursively compiles each group, after pattern
// specialization (spec section 4.1.2 Match: column specialization
// expands a matched constructor's sub-patterns into new columns).
func (c *DecisionTreeCompiler) buildSwitch(matrix []matchRow, path []int, colIndex int) DecisionTree {
	cases := make(map[interface{}][]matchRow)
	var defaultRows []matchRow

	for _, row := range matrix {
		if colIndex >= len(row.patterns) {
			defaultRows = append(defaultRows, row)
			continue
		}
		switch p := row.patterns[colIndex].(type) {
		case *ast.LiteralPattern:
			cases[literalKey(p.Value)] = append(cases[literalKey(p.Value)], row)
		case *ast.ClassPattern:
			cases[p.ClassName] = append(cases[p.ClassName], row)
		case *ast.WildcardPattern, *ast.NamePattern:
			defaultRows = append(defaultRows, row)
		case *ast.AsPattern:
			defaultRows = append(defaultRows, row)
		default:
			defaultRows = append(defaultRows, row)
		}
	}

	if len(cases) == 0 && len(defaultRows) > 0 {
		return leafOf(defaultRows[0])
	}

	nextPath := append(append([]int{}, path...), colIndex)
	sw := &SwitchNode{Path: nextPath, Cases: make(map[interface{}]DecisionTree)}

	for key, rows := range cases {
		specialized := c.specializeRows(rows, colIndex)
		sw.Cases[key] = c.compileMatrix(specialized, nextPath)
	}

	if len(defaultRows) > 0 {
		specialized := c.specializeRows(defaultRows, colIndex)
		sw.Default = c.compileMatrix(specialized, nextPath)
	} else {
		sw.Default = &FailNode{}
	}
	return sw
}

// specializeRows drops the matched column, expanding a ClassPattern's
// positional sub-patterns into new columns in its place (spec section
// 4.1.2 Match).
func (c *DecisionTreeCompiler) specializeRows(rows []matchRow, colIndex int) []matchRow {
	result := make([]matchRow, 0, len(rows))
	for _, row := range rows {
		newPatterns := make([]ast.Pattern, 0, len(row.patterns))
		for i, pat := range row.patterns {
			if i == colIndex {
				if cp, ok := pat.(*ast.ClassPattern); ok {
					newPatterns = append(newPatterns, cp.Positional...)
				}
				continue
			}
			newPatterns = append(newPatterns, pat)
		}
		result = append(result, matchRow{
			patterns: newPatterns,
			armIndex: row.armIndex,
			guard:    row.guard,
			body:     row.body,
		})
	}
	return result
}

// literalKey derives a hashable map key from a literal pattern's value
// expression so equal literals land in the same switch case.
func literalKey(e ast.Expr) interface{} {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Value
	case *ast.FloatLit:
		return n.Value
	case *ast.BoolLit:
		return n.Value
	case *ast.StringLit:
		return n.Value
	case *ast.NoneLit:
		return "None"
	default:
		return canonicalKey(e)
	}
}

// CanCompileToTree reports whether cases have enough literal/class
// patterns to make decision-tree compilation worthwhile over a plain
// sequential if/else chain (spec section 4.1.2 Match).
func CanCompileToTree(cases []ast.MatchCase) bool {
	count := 0
	for _, c := range cases {
		switch c.Pattern.(type) {
		case *ast.LiteralPattern, *ast.ClassPattern:
			count++
		}
	}
	return count >= 2
}
