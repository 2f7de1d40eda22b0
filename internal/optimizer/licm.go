package optimizer

import "github.com/sunholo/pycc/internal/ast"

// LICM hoists loop-invariant assignments out of while loops (spec section
// 4.2.4): a loop-body assignment `name = pure-expr` is hoisted above the
// while statement when name is assigned exactly once in the loop body,
// the RHS reads no name the loop body writes, and name is not read
// anywhere in the loop body before this assignment.
type LICM struct{}

// Run rewrites every function body in m and returns the number of
// assignments hoisted.
func (LICM) Run(m *ast.Module) int {
	hoisted := 0
	for _, fn := range m.Funcs {
		fn.Body, hoisted = licmBlock(fn.Body, hoisted)
	}
	return hoisted
}

func licmBlock(body []ast.Stmt, hoisted int) ([]ast.Stmt, int) {
	for i := 0; i < len(body); i++ {
		ws, ok := body[i].(*ast.While)
		if !ok {
			continue
		}
		for {
			writesInLoop := assignCounts(ws.Body)
			idx, hoistable := findHoistable(ws.Body, writesInLoop)
			if !hoistable {
				break
			}
			moved := ws.Body[idx]
			ws.Body = append(append([]ast.Stmt{}, ws.Body[:idx]...), ws.Body[idx+1:]...)
			body = append(body[:i], append([]ast.Stmt{moved}, body[i:]...)...)
			hoisted++
			i++ // body[i] is now the while statement again, shifted forward
		}
	}
	return body, hoisted
}

func assignCounts(stmts []ast.Stmt) map[string]int {
	writes := make(map[string]int)
	for _, s := range stmts {
		a, ok := s.(*ast.Assign)
		if !ok {
			continue
		}
		if name, ok := simpleAssignName(a); ok {
			writes[name]++
		}
	}
	return writes
}

func findHoistable(loopBody []ast.Stmt, writesInLoop map[string]int) (int, bool) {
	for i, s := range loopBody {
		a, ok := s.(*ast.Assign)
		if !ok {
			continue
		}
		name, ok := simpleAssignName(a)
		if !ok {
			continue
		}
		if a.Value == nil || !IsPureExpr(a.Value) {
			continue
		}
		if writesInLoop[name] > 1 {
			continue
		}
		reads := make(map[string]bool)
		collectReadNames(a.Value, reads)
		dependsOnLoopWrite := false
		for r := range reads {
			if writesInLoop[r] > 0 {
				dependsOnLoopWrite = true
				break
			}
		}
		if dependsOnLoopWrite {
			continue
		}
		usedBefore := false
		for _, before := range loopBody[:i] {
			if nameReadByShallowStmt(before, name) {
				usedBefore = true
				break
			}
		}
		if usedBefore {
			continue
		}
		return i, true
	}
	return -1, false
}

func collectReadNames(e ast.Expr, reads map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Name:
		reads[n.Ident] = true
	case *ast.UnaryOp:
		collectReadNames(n.Operand, reads)
	case *ast.BinaryOp:
		collectReadNames(n.Left, reads)
		collectReadNames(n.Right, reads)
	case *ast.TupleLit:
		for _, el := range n.Elements {
			collectReadNames(el, reads)
		}
	case *ast.ListLit:
		for _, el := range n.Elements {
			collectReadNames(el, reads)
		}
	}
}

// nameReadByShallowStmt reports whether needle is read within stmt's own
// expression, restricted to Assign/ExprStmt values the way the original
// pass's conservative pre-hoist reader is restricted (it does not descend
// into If/Return/other statement kinds).
func nameReadByShallowStmt(stmt ast.Stmt, needle string) bool {
	switch s := stmt.(type) {
	case *ast.Assign:
		return nameReadInExpr(s.Value, needle)
	case *ast.ExprStmt:
		return nameReadInExpr(s.Value, needle)
	default:
		return false
	}
}

func nameReadInExpr(e ast.Expr, needle string) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.Name:
		return n.Ident == needle
	case *ast.UnaryOp:
		return nameReadInExpr(n.Operand, needle)
	case *ast.BinaryOp:
		return nameReadInExpr(n.Left, needle) || nameReadInExpr(n.Right, needle)
	case *ast.TupleLit:
		for _, el := range n.Elements {
			if nameReadInExpr(el, needle) {
				return true
			}
		}
		return false
	case *ast.ListLit:
		for _, el := range n.Elements {
			if nameReadInExpr(el, needle) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
