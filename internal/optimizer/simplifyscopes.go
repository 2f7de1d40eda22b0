package optimizer

import "github.com/sunholo/pycc/internal/ast"

// SimplifyScopes drops Pass statements and collapses an If whose two
// branches are each a single, structurally identical Return into that
// Return (spec section 4.2.4).
type SimplifyScopes struct{}

// Run rewrites every function body in m and returns the number of
// changes made.
func (SimplifyScopes) Run(m *ast.Module) int {
	changes := 0
	for _, fn := range m.Funcs {
		fn.Body = simplifyScopesBlock(fn.Body, &changes)
	}
	return changes
}

func simplifyScopesBlock(body []ast.Stmt, changes *int) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(body))
	for _, s := range body {
		if s == nil {
			continue
		}
		if _, ok := s.(*ast.Pass); ok {
			*changes = *changes + 1
			continue
		}
		if ifs, ok := s.(*ast.If); ok {
			ifs.Then = simplifyScopesBlock(ifs.Then, changes)
			ifs.Else = simplifyScopesBlock(ifs.Else, changes)
			if collapsed, ok := collapseReturnIf(ifs); ok {
				out = append(out, collapsed)
				*changes = *changes + 1
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func collapseReturnIf(ifs *ast.If) (ast.Stmt, bool) {
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		return nil, false
	}
	rt, ok := ifs.Then[0].(*ast.Return)
	if !ok {
		return nil, false
	}
	re, ok := ifs.Else[0].(*ast.Return)
	if !ok {
		return nil, false
	}
	if rt.Value == nil || re.Value == nil {
		return nil, false
	}
	if !exprEqual(rt.Value, re.Value) {
		return nil, false
	}
	return rt, true
}
