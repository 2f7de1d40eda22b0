package sema

import "github.com/sunholo/pycc/internal/ast"

// ScanFnTraits detects whether fn is a generator (contains a `yield` in
// its own body, not a nested function's) or a coroutine (declared with
// `async def` and containing `await`), per spec section 4.1.4. Kept as
// its own pass, separate from effect scanning, since it only needs a
// single function's body rather than the whole module.
func ScanFnTraits(fn *ast.FuncDef) FuncFlags {
	var flags FuncFlags
	walkStmtsShallow(fn.Body, func(e ast.Expr) {
		switch e.(type) {
		case *ast.Yield:
			flags.IsGenerator = true
		case *ast.Await:
			flags.IsCoroutine = true
		}
	})
	return flags
}

// ScanEffects populates out[stmt] = true for every statement that may
// raise an exception during execution (spec section 4.1.4): a bare
// raise, an assert, or any statement containing a call, subscript,
// attribute access, or arithmetic operator that can fault (division,
// modulo, floor-division by zero). This is a conservative
// over-approximation; codegen uses it to decide whether a statement
// needs an exception landing pad in scope.
func ScanEffects(m *ast.Module, out map[ast.Stmt]bool) {
	var mark func(stmts []ast.Stmt)
	mark = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			raises := stmtMayRaise(stmt)
			out[stmt] = raises
			for _, nested := range nestedBlocks(stmt) {
				mark(nested)
			}
		}
	}
	mark(m.Body)
	for _, fn := range m.Funcs {
		mark(fn.Body)
	}
	for _, cd := range m.Classes {
		for _, stmt := range cd.Body {
			if fn, ok := stmt.(*ast.FuncDef); ok {
				mark(fn.Body)
			}
		}
	}
}

// nestedBlocks returns every statement list directly owned by stmt, so
// ScanEffects can recurse without re-deriving fn.Body for nested defs
// (those are scanned separately, once, from their own FuncDef entry).
func nestedBlocks(stmt ast.Stmt) [][]ast.Stmt {
	switch s := stmt.(type) {
	case *ast.If:
		return [][]ast.Stmt{s.Then, s.Else}
	case *ast.While:
		return [][]ast.Stmt{s.Body, s.Else}
	case *ast.For:
		return [][]ast.Stmt{s.Body, s.Else}
	case *ast.With:
		return [][]ast.Stmt{s.Body}
	case *ast.Try:
		blocks := [][]ast.Stmt{s.Body, s.Else, s.Finally}
		for _, h := range s.Handlers {
			blocks = append(blocks, h.Body)
		}
		return blocks
	case *ast.Match:
		blocks := make([][]ast.Stmt, len(s.Cases))
		for i, c := range s.Cases {
			blocks[i] = c.Body
		}
		return blocks
	default:
		return nil
	}
}

func stmtMayRaise(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Raise, *ast.Assert:
		return true
	case *ast.ExprStmt:
		return exprMayRaise(s.Value)
	case *ast.Assign:
		if exprMayRaise(s.Value) {
			return true
		}
		for _, t := range s.Targets {
			if exprMayRaise(t) {
				return true
			}
		}
		return false
	case *ast.AugAssign:
		return exprMayRaise(s.Target) || exprMayRaise(s.Value)
	case *ast.Return:
		return s.Value != nil && exprMayRaise(s.Value)
	case *ast.If:
		return exprMayRaise(s.Cond)
	case *ast.While:
		return exprMayRaise(s.Cond)
	case *ast.For:
		return exprMayRaise(s.Iter)
	case *ast.Del:
		for _, t := range s.Targets {
			if exprMayRaise(t) {
				return true
			}
		}
		return false
	case *ast.With:
		for _, it := range s.Items {
			if exprMayRaise(it.ContextExpr) {
				return true
			}
		}
		return false
	case *ast.Match:
		return exprMayRaise(s.Subject)
	default:
		return false
	}
}

// exprMayRaise reports whether evaluating e can fault at runtime: any
// call (the callee may raise), any subscript/attribute (KeyError,
// IndexError, AttributeError), or division/modulo/floor-division
// (ZeroDivisionError).
func exprMayRaise(e ast.Expr) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.Call:
		return true
	case *ast.Subscript:
		return true
	case *ast.Attribute:
		return true
	case *ast.BinaryOp:
		switch n.Op {
		case ast.OpDiv, ast.OpMod, ast.OpFloorDiv:
			return true
		}
		return exprMayRaise(n.Left) || exprMayRaise(n.Right)
	case *ast.UnaryOp:
		return exprMayRaise(n.Operand)
	case *ast.CompareChain:
		if exprMayRaise(n.Left) {
			return true
		}
		for _, c := range n.Comparators {
			if exprMayRaise(c) {
				return true
			}
		}
		return false
	case *ast.TupleLit:
		return anyMayRaise(n.Elements)
	case *ast.ListLit:
		return anyMayRaise(n.Elements)
	case *ast.SetLit:
		return anyMayRaise(n.Elements)
	case *ast.DictLit:
		for _, ent := range n.Entries {
			if exprMayRaise(ent.Key) || exprMayRaise(ent.Value) {
				return true
			}
		}
		return false
	case *ast.IfExpr:
		return exprMayRaise(n.Cond) || exprMayRaise(n.Then) || exprMayRaise(n.Else)
	case *ast.Await:
		return true
	default:
		return false
	}
}

func anyMayRaise(es []ast.Expr) bool {
	for _, e := range es {
		if exprMayRaise(e) {
			return true
		}
	}
	return false
}

// ScanReturnParamIdx finds the index of a parameter that every return
// statement in fn forwards unchanged, so codegen can reuse the caller's
// pointer tag for the result instead of re-deriving it (spec section
// 4.1.4, kept as its own pass per the original implementation's
// decomposition into a dedicated returnParamIdx scan). Returns -1 when
// fn has no returns, a bare return, a non-parameter return expression, or
// disagreeing parameters across multiple returns.
func ScanReturnParamIdx(fn *ast.FuncDef) int {
	paramIdx := make(map[string]int, len(fn.Params))
	for i, p := range fn.Params {
		paramIdx[p.Name] = i
	}

	candidate := -1
	found := false

	var walk func(stmts []ast.Stmt) bool
	walk = func(stmts []ast.Stmt) bool {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Return:
				if s.Value == nil {
					return false
				}
				name, ok := s.Value.(*ast.Name)
				if !ok {
					return false
				}
				idx, ok := paramIdx[name.Ident]
				if !ok {
					return false
				}
				if found && candidate != idx {
					return false
				}
				candidate = idx
				found = true
			case *ast.If:
				if !walk(s.Then) || !walk(s.Else) {
					return false
				}
			case *ast.While:
				if !walk(s.Body) || !walk(s.Else) {
					return false
				}
			case *ast.For:
				if !walk(s.Body) || !walk(s.Else) {
					return false
				}
			case *ast.With:
				if !walk(s.Body) {
					return false
				}
			case *ast.Try:
				if !walk(s.Body) || !walk(s.Else) || !walk(s.Finally) {
					return false
				}
				for _, h := range s.Handlers {
					if !walk(h.Body) {
						return false
					}
				}
			case *ast.FuncDef, *ast.ClassDef:
				// A nested def's own returns belong to it, not fn.
			}
		}
		return true
	}

	if !walk(fn.Body) || !found {
		return -1
	}
	return candidate
}

// walkStmtsShallow visits every expression reachable from stmts without
// descending into a nested FuncDef or Lambda body, since those introduce
// their own yield/await scope.
func walkStmtsShallow(stmts []ast.Stmt, visit func(ast.Expr)) {
	var walkExpr func(e ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		visit(e)
		switch n := e.(type) {
		case *ast.UnaryOp:
			walkExpr(n.Operand)
		case *ast.BinaryOp:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.CompareChain:
			walkExpr(n.Left)
			for _, c := range n.Comparators {
				walkExpr(c)
			}
		case *ast.Call:
			walkExpr(n.Func)
			for _, a := range n.Args {
				walkExpr(a)
			}
			for _, kw := range n.Kwargs {
				walkExpr(kw.Value)
			}
		case *ast.Attribute:
			walkExpr(n.Base)
		case *ast.Subscript:
			walkExpr(n.Base)
			walkExpr(n.Index)
		case *ast.TupleLit:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.ListLit:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.SetLit:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.DictLit:
			for _, ent := range n.Entries {
				walkExpr(ent.Key)
				walkExpr(ent.Value)
			}
		case *ast.IfExpr:
			walkExpr(n.Cond)
			walkExpr(n.Then)
			walkExpr(n.Else)
		case *ast.Await:
			walkExpr(n.Value)
		case *ast.Yield:
			walkExpr(n.Value)
		case *ast.Comprehension:
			walkExpr(n.Element)
			walkExpr(n.Key)
			for _, c := range n.Clauses {
				walkExpr(c.Iter)
				for _, cond := range c.Ifs {
					walkExpr(cond)
				}
			}
		case *ast.NamedExpr:
			walkExpr(n.Value)
			// Lambda bodies are a separate yield/await scope; don't descend.
		}
	}

	var walkStmts func(stmts []ast.Stmt)
	walkStmts = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.ExprStmt:
				walkExpr(s.Value)
			case *ast.Assign:
				walkExpr(s.Value)
				for _, t := range s.Targets {
					walkExpr(t)
				}
			case *ast.AugAssign:
				walkExpr(s.Target)
				walkExpr(s.Value)
			case *ast.Return:
				walkExpr(s.Value)
			case *ast.If:
				walkExpr(s.Cond)
				walkStmts(s.Then)
				walkStmts(s.Else)
			case *ast.While:
				walkExpr(s.Cond)
				walkStmts(s.Body)
				walkStmts(s.Else)
			case *ast.For:
				walkExpr(s.Iter)
				walkStmts(s.Body)
				walkStmts(s.Else)
			case *ast.With:
				for _, item := range s.Items {
					walkExpr(item.ContextExpr)
				}
				walkStmts(s.Body)
			case *ast.Try:
				walkStmts(s.Body)
				for _, h := range s.Handlers {
					walkStmts(h.Body)
				}
				walkStmts(s.Else)
				walkStmts(s.Finally)
			case *ast.Raise:
				walkExpr(s.Exc)
				walkExpr(s.Cause)
			case *ast.Assert:
				walkExpr(s.Cond)
				walkExpr(s.Message)
			case *ast.Del:
				for _, t := range s.Targets {
					walkExpr(t)
				}
			case *ast.Match:
				walkExpr(s.Subject)
				for _, c := range s.Cases {
					walkExpr(c.Guard)
					walkStmts(c.Body)
				}
			case *ast.FuncDef, *ast.ClassDef:
				// separate scope, not walked here
			}
		}
	}
	walkStmts(stmts)
}
