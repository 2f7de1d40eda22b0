package optimizer

import "github.com/sunholo/pycc/internal/ast"

// LocalProp is forward copy/constant propagation over a single top-level
// function body (spec section 4.2.4). It tracks, per straight-line run of
// statements, an alias table (name -> name) and a constant table (name ->
// literal), rewriting later reads of a propagated name to either the
// literal or the alias root. Branch, loop, try, with, and match bodies
// each start from a fresh, empty environment and never leak propagated
// facts in or out across that boundary — the one piece of conservatism
// that keeps the pass correct without a real dataflow merge.
type LocalProp struct{}

// env is the per-block propagation state.
type env struct {
	alias map[string]string
	konst map[string]ast.Expr
}

func newEnv() *env {
	return &env{alias: make(map[string]string), konst: make(map[string]ast.Expr)}
}

func (e *env) clear() {
	e.alias = make(map[string]string)
	e.konst = make(map[string]ast.Expr)
}

func (e *env) kill(name string) {
	delete(e.alias, name)
	delete(e.konst, name)
}

// resolveAlias follows the alias chain for name, guarding against a
// cycle (which should never arise but costs nothing to guard).
func (e *env) resolveAlias(name string) string {
	seen := map[string]bool{name: true}
	cur := name
	for {
		next, ok := e.alias[cur]
		if !ok || seen[next] {
			return cur
		}
		seen[next] = true
		cur = next
	}
}

// Run rewrites every function body in m and returns the number of
// rewrites made.
func (LocalProp) Run(m *ast.Module) int {
	total := 0
	for _, fn := range m.Funcs {
		e := newEnv()
		total += localPropBlock(fn.Body, e)
	}
	return total
}

func localPropBlock(stmts []ast.Stmt, e *env) int {
	changes := 0
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.ExprStmt:
			st.Value = propagateExpr(st.Value, e, &changes)

		case *ast.Assign:
			st.Value = propagateExpr(st.Value, e, &changes)
			if name, ok := simpleAssignName(st); ok {
				e.kill(name)
				if lit, ok := literalOf(st.Value); ok {
					e.konst[name] = lit
				} else if rhsName, ok := st.Value.(*ast.Name); ok {
					e.alias[name] = rhsName.Ident
				}
			} else {
				for _, t := range st.Targets {
					propagateExpr(t, e, &changes)
				}
				e.clear()
			}

		case *ast.AugAssign:
			st.Value = propagateExpr(st.Value, e, &changes)
			if name, ok := targetName(st.Target); ok {
				e.kill(name)
			} else {
				e.clear()
			}

		case *ast.Return:
			if st.Value != nil {
				st.Value = propagateExpr(st.Value, e, &changes)
			}

		case *ast.If:
			st.Cond = propagateExpr(st.Cond, e, &changes)
			changes += localPropBlock(st.Then, newEnv())
			changes += localPropBlock(st.Else, newEnv())
			e.clear()

		case *ast.While:
			e.clear()
			st.Cond = propagateExpr(st.Cond, e, &changes)
			changes += localPropBlock(st.Body, newEnv())
			changes += localPropBlock(st.Else, newEnv())

		case *ast.For:
			st.Iter = propagateExpr(st.Iter, e, &changes)
			changes += localPropBlock(st.Body, newEnv())
			changes += localPropBlock(st.Else, newEnv())
			e.clear()

		case *ast.Try:
			changes += localPropBlock(st.Body, newEnv())
			for i := range st.Handlers {
				changes += localPropBlock(st.Handlers[i].Body, newEnv())
			}
			changes += localPropBlock(st.Else, newEnv())
			changes += localPropBlock(st.Finally, newEnv())
			e.clear()

		case *ast.With:
			for i := range st.Items {
				st.Items[i].ContextExpr = propagateExpr(st.Items[i].ContextExpr, e, &changes)
			}
			changes += localPropBlock(st.Body, newEnv())
			e.clear()

		case *ast.Match:
			st.Subject = propagateExpr(st.Subject, e, &changes)
			for i := range st.Cases {
				changes += localPropBlock(st.Cases[i].Body, newEnv())
			}
			e.clear()

		case *ast.ClassDef, *ast.Global, *ast.Nonlocal, *ast.Import, *ast.ImportFrom, *ast.Raise:
			e.clear()

		default:
			// Break, Continue, Pass, Del, Assert, FuncDef, etc: no
			// propagatable expression and nothing that invalidates the
			// env by itself.
		}
	}
	return changes
}

func targetName(target ast.AssignTarget) (string, bool) {
	name, ok := target.(*ast.Name)
	if !ok {
		return "", false
	}
	return name.Ident, true
}

func literalOf(e ast.Expr) (ast.Expr, bool) {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit, *ast.NoneLit:
		return e, true
	default:
		return nil, false
	}
}

// propagateExpr rewrites every Name read in e to its propagated constant
// or alias root, recording one change per rewritten occurrence.
func propagateExpr(e ast.Expr, en *env, changes *int) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Name:
		if n.Ctx != ast.Load {
			return n
		}
		if lit, ok := en.konst[n.Ident]; ok {
			*changes = *changes + 1
			return cloneLiteral(lit)
		}
		root := en.resolveAlias(n.Ident)
		if root != n.Ident {
			*changes = *changes + 1
			return &ast.Name{Ident: root, Ctx: ast.Load}
		}
		return n
	case *ast.UnaryOp:
		n.Operand = propagateExpr(n.Operand, en, changes)
		return n
	case *ast.BinaryOp:
		n.Left = propagateExpr(n.Left, en, changes)
		n.Right = propagateExpr(n.Right, en, changes)
		return n
	case *ast.CompareChain:
		n.Left = propagateExpr(n.Left, en, changes)
		for i := range n.Comparators {
			n.Comparators[i] = propagateExpr(n.Comparators[i], en, changes)
		}
		return n
	case *ast.TupleLit:
		for i := range n.Elements {
			n.Elements[i] = propagateExpr(n.Elements[i], en, changes)
		}
		return n
	case *ast.ListLit:
		for i := range n.Elements {
			n.Elements[i] = propagateExpr(n.Elements[i], en, changes)
		}
		return n
	case *ast.SetLit:
		for i := range n.Elements {
			n.Elements[i] = propagateExpr(n.Elements[i], en, changes)
		}
		return n
	case *ast.DictLit:
		for i := range n.Entries {
			if n.Entries[i].Key != nil {
				n.Entries[i].Key = propagateExpr(n.Entries[i].Key, en, changes)
			}
			n.Entries[i].Value = propagateExpr(n.Entries[i].Value, en, changes)
		}
		return n
	case *ast.Attribute:
		n.Base = propagateExpr(n.Base, en, changes)
		return n
	case *ast.Subscript:
		n.Base = propagateExpr(n.Base, en, changes)
		n.Index = propagateExpr(n.Index, en, changes)
		return n
	case *ast.Call:
		n.Func = propagateExpr(n.Func, en, changes)
		for i := range n.Args {
			n.Args[i] = propagateExpr(n.Args[i], en, changes)
		}
		for i := range n.Kwargs {
			n.Kwargs[i].Value = propagateExpr(n.Kwargs[i].Value, en, changes)
		}
		return n
	case *ast.IfExpr:
		n.Cond = propagateExpr(n.Cond, en, changes)
		n.Then = propagateExpr(n.Then, en, changes)
		n.Else = propagateExpr(n.Else, en, changes)
		return n
	default:
		return e
	}
}

func cloneLiteral(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.IntLit:
		return &ast.IntLit{Value: n.Value}
	case *ast.FloatLit:
		return &ast.FloatLit{Value: n.Value}
	case *ast.BoolLit:
		return &ast.BoolLit{Value: n.Value}
	case *ast.StringLit:
		return &ast.StringLit{Value: n.Value}
	case *ast.NoneLit:
		return &ast.NoneLit{}
	default:
		return e
	}
}
