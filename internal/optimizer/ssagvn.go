package optimizer

import (
	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/ssa"
)

// SSAGVN reuses the dominating definition of a repeated pure expression
// across blocks (spec section 4.2.4): it walks each function's dominator
// tree, and for any pure subexpression that matches one already bound to
// a single-assignment name along the current path from the entry, it
// rewrites the occurrence to a read of that name. A function is skipped
// entirely if any of its names is assigned more than once anywhere in its
// body — the conservative safety net the teacher's pass used instead of
// tracking per-definition dominance directly.
type SSAGVN struct{}

// Run rewrites every function body in m and returns the number of
// rewrites made.
func (SSAGVN) Run(m *ast.Module) int {
	total := 0
	builder := ssa.NewBuilder()
	for _, fn := range m.Funcs {
		fun := builder.Build(fn.Body)
		dom := ssa.ComputeDominators(fun)

		writes := make(map[string]int)
		for _, blk := range fun.Blocks {
			for _, s := range blk.Stmts {
				a, ok := s.(*ast.Assign)
				if !ok {
					continue
				}
				if name, ok := simpleAssignName(a); ok {
					writes[name]++
				}
			}
		}
		hasMultiWrite := false
		for _, n := range writes {
			if n > 1 {
				hasMultiWrite = true
				break
			}
		}
		if hasMultiWrite {
			continue
		}

		out := make([]map[string]string, len(fun.Blocks))
		var walk func(b int)
		walk = func(b int) {
			valTable := make(map[string]string)
			id := -1
			if b >= 0 && b < len(dom.Idom) {
				id = dom.Idom[b]
			}
			if id >= 0 {
				for key, name := range out[id] {
					if writes[name] == 1 {
						valTable[key] = name
					}
				}
			}
			total += ssaGVNBlock(fun.Blocks[b], valTable, writes)
			out[b] = valTable
			for _, c := range dom.Children[b] {
				walk(c)
			}
		}
		if len(fun.Blocks) > 0 {
			walk(0)
		}
	}
	return total
}

func ssaGVNBlock(blk *ssa.Block, valTable map[string]string, writes map[string]int) int {
	changes := 0
	for _, s := range blk.Stmts {
		switch st := s.(type) {
		case *ast.Assign:
			if st.Value != nil {
				st.Value = rewriteWithValueTable(st.Value, valTable, &changes)
			}
			if st.Value != nil && IsPureExpr(st.Value) {
				key := hashExpr(st.Value)
				if name, ok := simpleAssignName(st); ok && key != "" && writes[name] == 1 {
					if existing, ok := valTable[key]; !ok {
						valTable[key] = name
					} else if !isCSEName(existing) && isCSEName(name) {
						valTable[key] = name
					}
				}
			}
		case *ast.ExprStmt:
			if st.Value != nil {
				st.Value = rewriteWithValueTable(st.Value, valTable, &changes)
			}
		}
	}
	return changes
}

func isCSEName(name string) bool {
	return len(name) >= 4 && name[:4] == "_cse"
}

// rewriteWithValueTable replaces any pure subexpression matching a key in
// valTable with a read of the bound name, descending into every
// subexpression it doesn't itself rewrite.
func rewriteWithValueTable(e ast.Expr, valTable map[string]string, changes *int) ast.Expr {
	if e == nil {
		return nil
	}
	if IsPureExpr(e) {
		key := hashExpr(e)
		if name, ok := valTable[key]; ok && key != "" {
			*changes = *changes + 1
			return &ast.Name{Ident: name, Ctx: ast.Load}
		}
	}
	switch n := e.(type) {
	case *ast.UnaryOp:
		n.Operand = rewriteWithValueTable(n.Operand, valTable, changes)
		return n
	case *ast.BinaryOp:
		n.Left = rewriteWithValueTable(n.Left, valTable, changes)
		n.Right = rewriteWithValueTable(n.Right, valTable, changes)
		return n
	case *ast.TupleLit:
		for i := range n.Elements {
			n.Elements[i] = rewriteWithValueTable(n.Elements[i], valTable, changes)
		}
		return n
	case *ast.ListLit:
		for i := range n.Elements {
			n.Elements[i] = rewriteWithValueTable(n.Elements[i], valTable, changes)
		}
		return n
	case *ast.Attribute:
		n.Base = rewriteWithValueTable(n.Base, valTable, changes)
		return n
	case *ast.Subscript:
		n.Base = rewriteWithValueTable(n.Base, valTable, changes)
		n.Index = rewriteWithValueTable(n.Index, valTable, changes)
		return n
	default:
		return e
	}
}
