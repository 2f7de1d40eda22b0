package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node, used
// by golden snapshot tests across sema/optimizer/codegen (spec section 8:
// "two runs on the same input produce byte-identical output").
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation, for one-line diffs.
func Compact(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// simplify converts an AST node into a JSON-serializable map, dropping
// Pos so golden output stays stable when line numbers shift for reasons
// unrelated to the thing under test.
func simplify(node interface{}) interface{} {
	switch n := node.(type) {
	case nil:
		return nil

	case *IntLit:
		return map[string]interface{}{"type": "IntLit", "value": n.Value}
	case *FloatLit:
		return map[string]interface{}{"type": "FloatLit", "value": n.Value}
	case *BoolLit:
		return map[string]interface{}{"type": "BoolLit", "value": n.Value}
	case *StringLit:
		return map[string]interface{}{"type": "StringLit", "value": n.Value}
	case *BytesLit:
		return map[string]interface{}{"type": "BytesLit", "value": n.Value}
	case *NoneLit:
		return map[string]interface{}{"type": "NoneLit"}
	case *EllipsisLit:
		return map[string]interface{}{"type": "EllipsisLit"}
	case *ImaginaryLit:
		return map[string]interface{}{"type": "ImaginaryLit", "value": n.Value}

	case *Name:
		return map[string]interface{}{"type": "Name", "ident": n.Ident}
	case *Attribute:
		return map[string]interface{}{"type": "Attribute", "base": simplify(n.Base), "attr": n.Attr}
	case *Subscript:
		return map[string]interface{}{"type": "Subscript", "base": simplify(n.Base), "index": simplify(n.Index)}
	case *NamedExpr:
		return map[string]interface{}{"type": "NamedExpr", "name": n.Name, "value": simplify(n.Value)}

	case *BinaryOp:
		return map[string]interface{}{"type": "BinaryOp", "op": string(n.Op), "left": simplify(n.Left), "right": simplify(n.Right)}
	case *UnaryOp:
		return map[string]interface{}{"type": "UnaryOp", "op": string(n.Op), "operand": simplify(n.Operand)}
	case *CompareChain:
		return map[string]interface{}{
			"type": "CompareChain",
			"left": simplify(n.Left),
			"ops":  cmpOpStrings(n.Ops),
			"comparators": simplifyExprSlice(n.Comparators),
		}

	case *Call:
		m := map[string]interface{}{"type": "Call", "func": simplify(n.Func)}
		if len(n.Args) > 0 {
			m["args"] = simplifyExprSlice(n.Args)
		}
		if len(n.Kwargs) > 0 {
			kw := make([]interface{}, len(n.Kwargs))
			for i, k := range n.Kwargs {
				kw[i] = map[string]interface{}{"name": k.Name, "value": simplify(k.Value)}
			}
			m["kwargs"] = kw
		}
		return m

	case *TupleLit:
		return map[string]interface{}{"type": "TupleLit", "elements": simplifyExprSlice(n.Elements)}
	case *ListLit:
		return map[string]interface{}{"type": "ListLit", "elements": simplifyExprSlice(n.Elements)}
	case *SetLit:
		return map[string]interface{}{"type": "SetLit", "elements": simplifyExprSlice(n.Elements)}
	case *DictLit:
		entries := make([]interface{}, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]interface{}{"key": simplify(e.Key), "value": simplify(e.Value)}
		}
		return map[string]interface{}{"type": "DictLit", "entries": entries}
	case *ObjectLit:
		return map[string]interface{}{"type": "ObjectLit", "class": n.ClassName, "fields": simplifyExprSlice(n.Fields)}

	case *IfExpr:
		return map[string]interface{}{"type": "IfExpr", "cond": simplify(n.Cond), "then": simplify(n.Then), "else": simplify(n.Else)}
	case *Await:
		return map[string]interface{}{"type": "Await", "value": simplify(n.Value)}
	case *Yield:
		return map[string]interface{}{"type": "Yield", "value": simplify(n.Value), "from": n.From}

	case *ExprStmt:
		return map[string]interface{}{"type": "ExprStmt", "value": simplify(n.Value)}
	case *Assign:
		return map[string]interface{}{"type": "Assign", "targets": simplifyExprSlice(n.Targets), "value": simplify(n.Value)}
	case *Return:
		return map[string]interface{}{"type": "Return", "value": simplify(n.Value)}
	case *If:
		return map[string]interface{}{"type": "If", "cond": simplify(n.Cond), "then": simplifyStmtSlice(n.Then), "else": simplifyStmtSlice(n.Else)}
	case *While:
		return map[string]interface{}{"type": "While", "cond": simplify(n.Cond), "body": simplifyStmtSlice(n.Body)}
	case *For:
		return map[string]interface{}{"type": "For", "target": simplify(n.Target), "iter": simplify(n.Iter), "body": simplifyStmtSlice(n.Body)}
	case *Break:
		return map[string]interface{}{"type": "Break"}
	case *Continue:
		return map[string]interface{}{"type": "Continue"}
	case *Pass:
		return map[string]interface{}{"type": "Pass"}
	case *Raise:
		return map[string]interface{}{"type": "Raise", "exc": simplify(n.Exc)}
	case *ClassDef:
		return map[string]interface{}{"type": "ClassDef", "name": n.Name, "bases": n.Bases, "body": simplifyStmtSlice(n.Body)}
	case *FuncDef:
		names := make([]string, len(n.Params))
		for i, p := range n.Params {
			names[i] = p.Name
		}
		return map[string]interface{}{"type": "FuncDef", "name": n.Name, "params": names, "body": simplifyStmtSlice(n.Body)}
	case *Match:
		return map[string]interface{}{"type": "Match", "subject": simplify(n.Subject)}

	case *WildcardPattern:
		return map[string]interface{}{"type": "WildcardPattern"}
	case *NamePattern:
		return map[string]interface{}{"type": "NamePattern", "name": n.Name}
	case *LiteralPattern:
		return map[string]interface{}{"type": "LiteralPattern", "value": simplify(n.Value)}
	case *OrPattern:
		pats := make([]interface{}, len(n.Alternatives))
		for i, p := range n.Alternatives {
			pats[i] = simplify(p)
		}
		return map[string]interface{}{"type": "OrPattern", "alternatives": pats}
	case *ClassPattern:
		return map[string]interface{}{"type": "ClassPattern", "class": n.ClassName}
	case *SequencePattern:
		pats := make([]interface{}, len(n.Elements))
		for i, p := range n.Elements {
			pats[i] = simplify(p)
		}
		return map[string]interface{}{"type": "SequencePattern", "elements": pats}

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not handled by printer"}
	}
}

func simplifyExprSlice(exprs []Expr) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = simplify(e)
	}
	return out
}

func simplifyStmtSlice(stmts []Stmt) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = simplify(s)
	}
	return out
}

func cmpOpStrings(ops []CmpOp) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = string(op)
	}
	return out
}
