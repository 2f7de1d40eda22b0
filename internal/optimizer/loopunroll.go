package optimizer

import "github.com/sunholo/pycc/internal/ast"

// LoopUnroll fully unrolls `for target in range(start, stop, step)` loops
// with constant arguments, a small positive step, an iteration count of
// at most 8, and a body made only of simple ExprStmt/Assign statements
// (spec section 4.2.4). Anything more complex — break/continue, nested
// loops, try/with, non-constant range arguments — is left alone.
type LoopUnroll struct{}

const maxUnrollIterations = 8

// Run rewrites every function body in m and returns the number of loops
// unrolled or removed as dead (zero/negative iteration count).
func (LoopUnroll) Run(m *ast.Module) int {
	total := 0
	for _, fn := range m.Funcs {
		fn.Body, total = loopUnrollBlock(fn.Body, total)
	}
	return total
}

func loopUnrollBlock(body []ast.Stmt, total int) ([]ast.Stmt, int) {
	out := make([]ast.Stmt, 0, len(body))
	for _, s := range body {
		fs, ok := s.(*ast.For)
		if !ok {
			out = append(out, s)
			continue
		}
		repl, ok := unrollFor(fs)
		if !ok {
			out = append(out, s)
			continue
		}
		out = append(out, repl...)
		total++
	}
	return out, total
}

func unrollFor(fs *ast.For) ([]ast.Stmt, bool) {
	target, ok := fs.Target.(*ast.Name)
	if !ok {
		return nil, false
	}
	start, stop, step, ok := parseRangeCall(fs.Iter)
	if !ok || step == 0 || step < 0 {
		return nil, false
	}

	if stop <= start {
		repl, ok := cloneStmtList(fs.Else)
		if !ok || len(repl) == 0 {
			return nil, false
		}
		return repl, true
	}

	nIters := (stop - start + step - 1) / step
	if nIters <= 0 || nIters > maxUnrollIterations {
		return nil, false
	}
	if !bodySafeAndClonable(fs.Body) {
		return nil, false
	}
	stmtCount := int64(len(fs.Body))
	okCost := (stmtCount <= 2 && nIters <= 8) || (stmtCount <= 4 && nIters <= 4) || (stmtCount <= 1 && nIters <= 16)
	if !okCost {
		return nil, false
	}

	var repl []ast.Stmt
	for k, v := int64(0), start; k < nIters; k, v = k+1, v+step {
		assign := &ast.Assign{
			Targets: []ast.AssignTarget{&ast.Name{Ident: target.Ident, Ctx: ast.Store}},
			Value:   &ast.IntLit{Value: v},
		}
		repl = append(repl, assign)
		cloned, ok := cloneStmtList(fs.Body)
		if !ok {
			return nil, false
		}
		repl = append(repl, cloned...)
	}
	if len(fs.Else) > 0 {
		elseRepl, ok := cloneStmtList(fs.Else)
		if !ok {
			return nil, false
		}
		repl = append(repl, elseRepl...)
	}
	return repl, true
}

// parseRangeCall recognizes `range(stop)`, `range(start, stop)`, and
// `range(start, stop, step)` with integer-literal arguments only.
func parseRangeCall(iter ast.Expr) (start, stop, step int64, ok bool) {
	call, isCall := iter.(*ast.Call)
	if !isCall {
		return 0, 0, 0, false
	}
	name, isName := call.Func.(*ast.Name)
	if !isName || name.Ident != "range" {
		return 0, 0, 0, false
	}
	asInt := func(e ast.Expr) (int64, bool) {
		lit, ok := e.(*ast.IntLit)
		if !ok {
			return 0, false
		}
		return lit.Value, true
	}
	step = 1
	switch len(call.Args) {
	case 1:
		if stop, ok = asInt(call.Args[0]); !ok {
			return 0, 0, 0, false
		}
	case 2:
		var ok1, ok2 bool
		if start, ok1 = asInt(call.Args[0]); !ok1 {
			return 0, 0, 0, false
		}
		if stop, ok2 = asInt(call.Args[1]); !ok2 {
			return 0, 0, 0, false
		}
	case 3:
		var ok1, ok2, ok3 bool
		if start, ok1 = asInt(call.Args[0]); !ok1 {
			return 0, 0, 0, false
		}
		if stop, ok2 = asInt(call.Args[1]); !ok2 {
			return 0, 0, 0, false
		}
		if step, ok3 = asInt(call.Args[2]); !ok3 {
			return 0, 0, 0, false
		}
	default:
		return 0, 0, 0, false
	}
	return start, stop, step, true
}

func bodySafeAndClonable(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.ExprStmt:
			if cloneExpr(st.Value) == nil {
				return false
			}
		case *ast.Assign:
			if _, ok := simpleAssignName(st); !ok {
				return false
			}
			if cloneExpr(st.Value) == nil {
				return false
			}
		default:
			return false // break/continue/nested loops/try/with rejected conservatively
		}
	}
	return true
}

func cloneStmtList(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		c, ok := cloneStmt(s)
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, true
}

func cloneStmt(s ast.Stmt) (ast.Stmt, bool) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		v := cloneExpr(st.Value)
		if v == nil {
			return nil, false
		}
		return &ast.ExprStmt{Value: v}, true
	case *ast.Assign:
		name, ok := simpleAssignName(st)
		if !ok {
			return nil, false
		}
		v := cloneExpr(st.Value)
		if v == nil {
			return nil, false
		}
		return &ast.Assign{Targets: []ast.AssignTarget{&ast.Name{Ident: name, Ctx: ast.Store}}, Value: v}, true
	default:
		return nil, false
	}
}
