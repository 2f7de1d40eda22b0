package optimizer

import "github.com/sunholo/pycc/internal/ast"

// SimplifyCFG folds `if <BoolLiteral>: ... else: ...` into whichever
// branch the constant selects, recursively, anywhere in a function body
// (spec section 4.2.4). It runs before SimplifyScopes so later passes see
// fewer, simpler branches.
type SimplifyCFG struct{}

// Run rewrites every function body in m and returns the number of ifs
// pruned.
func (SimplifyCFG) Run(m *ast.Module) int {
	pruned := 0
	for _, fn := range m.Funcs {
		fn.Body = simplifyCFGBlock(fn.Body, &pruned)
	}
	return pruned
}

func simplifyCFGBlock(body []ast.Stmt, pruned *int) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(body))
	for _, s := range body {
		ifs, ok := s.(*ast.If)
		if !ok {
			out = append(out, s)
			continue
		}
		ifs.Then = simplifyCFGBlock(ifs.Then, pruned)
		ifs.Else = simplifyCFGBlock(ifs.Else, pruned)
		if v, isConst := constBool(ifs.Cond); isConst {
			if v {
				out = append(out, ifs.Then...)
			} else {
				out = append(out, ifs.Else...)
			}
			*pruned = *pruned + 1
			continue
		}
		out = append(out, ifs)
	}
	return out
}

func constBool(e ast.Expr) (bool, bool) {
	b, ok := e.(*ast.BoolLit)
	if !ok {
		return false, false
	}
	return b.Value, true
}
