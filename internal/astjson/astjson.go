// Package astjson decodes the JSON module interchange format cmd/pycc
// reads from disk. internal/ast's own package doc is explicit that the
// AST is produced by an external parser out of scope for this module
// (spec section 1); this package is pycc's documented bridge for driving
// the sema/optimizer/codegen pipeline directly from a serialized tree
// without requiring that parser to exist yet. It covers the statement and
// expression kinds the pipeline actually exercises end to end — module
// top-level Body and ClassDef are deliberately out of scope here, the
// same way codegen.GenerateIR itself only walks m.Funcs.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// Decode parses a JSON document into an ast.Module. The top-level shape
// is:
//
//	{"path": "example.py", "funcs": [funcDef, ...]}
//
// funcDef is:
//
//	{"name": "f", "params": [{"name": "x", "type": "int"}],
//	 "return_type": "int", "body": [stmt, ...]}
//
// Every stmt/expr is a JSON object carrying a "kind" discriminator. See
// the decode* functions below for the recognized kinds and their fields.
func Decode(data []byte) (*ast.Module, error) {
	var raw rawModule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	m := &ast.Module{Path: raw.Path}
	for _, rf := range raw.Funcs {
		fn, err := decodeFuncDef(rf)
		if err != nil {
			return nil, err
		}
		m.Funcs = append(m.Funcs, fn)
	}
	return m, nil
}

type rawModule struct {
	Path  string         `json:"path"`
	Funcs []rawFuncDef   `json:"funcs"`
}

type rawFuncDef struct {
	Name       string     `json:"name"`
	Params     []rawParam `json:"params"`
	ReturnType *string    `json:"return_type"`
	Body       []rawNode  `json:"body"`
}

type rawParam struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	HasDefault bool   `json:"has_default"`
	Default    *rawNode `json:"default"`
}

// rawNode is the generic envelope for both statements and expressions;
// which fields are populated depends on Kind.
type rawNode struct {
	Kind string `json:"kind"`

	// Literals
	Int    *int64   `json:"int"`
	Float  *float64 `json:"float"`
	Bool   *bool    `json:"bool"`
	Str    *string  `json:"str"`

	// Name
	Ident string `json:"ident"`

	// BinaryOp / UnaryOp / CompareChain
	Op          string     `json:"op"`
	Left        *rawNode   `json:"left"`
	Right       *rawNode   `json:"right"`
	Operand     *rawNode   `json:"operand"`
	Ops         []string   `json:"ops"`
	Comparators []rawNode  `json:"comparators"`

	// Call
	Func   *rawNode  `json:"func"`
	Args   []rawNode `json:"args"`

	// Assign / AugAssign
	Targets []rawNode `json:"targets"`
	Value   *rawNode  `json:"value"`

	// If / While
	Cond *rawNode  `json:"cond"`
	Then []rawNode `json:"then"`
	Else []rawNode `json:"else"`
	Body []rawNode `json:"body"`
}

func decodeFuncDef(rf rawFuncDef) (*ast.FuncDef, error) {
	fn := &ast.FuncDef{Name: rf.Name}
	for _, rp := range rf.Params {
		p := &ast.Param{Name: rp.Name, HasDefault: rp.HasDefault}
		if k, ok := typeKindOf(rp.Type); ok {
			tk := k
			p.Annotated = &tk
		}
		if rp.Default != nil {
			def, err := decodeExpr(*rp.Default)
			if err != nil {
				return nil, err
			}
			p.Default = def
		}
		fn.Params = append(fn.Params, p)
	}
	if rf.ReturnType != nil {
		if k, ok := typeKindOf(*rf.ReturnType); ok {
			tk := k
			fn.ReturnType = &tk
		}
	}
	body, err := decodeStmts(rf.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func typeKindOf(s string) (ast.TypeKind, bool) {
	switch s {
	case "none":
		return ast.TypeNone, true
	case "int":
		return ast.TypeInt, true
	case "float":
		return ast.TypeFloat, true
	case "bool":
		return ast.TypeBool, true
	case "str":
		return ast.TypeStr, true
	case "list":
		return ast.TypeList, true
	case "tuple":
		return ast.TypeTuple, true
	case "dict":
		return ast.TypeDict, true
	case "set":
		return ast.TypeSet, true
	case "bytes":
		return ast.TypeBytes, true
	case "bytearray":
		return ast.TypeByteArray, true
	default:
		return ast.TypeUnknown, false
	}
}

func decodeStmts(raw []rawNode) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raw))
	for _, r := range raw {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeStmt(r rawNode) (ast.Stmt, error) {
	switch r.Kind {
	case "pass":
		return &ast.Pass{}, nil
	case "break":
		return &ast.Break{}, nil
	case "continue":
		return &ast.Continue{}, nil
	case "expr":
		v, err := decodeExpr(*r.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: v}, nil
	case "return":
		if r.Value == nil {
			return &ast.Return{}, nil
		}
		v, err := decodeExpr(*r.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: v}, nil
	case "assign":
		targets := make([]ast.AssignTarget, 0, len(r.Targets))
		for _, t := range r.Targets {
			te, err := decodeExpr(t)
			if err != nil {
				return nil, err
			}
			targets = append(targets, te)
		}
		v, err := decodeExpr(*r.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Targets: targets, Value: v}, nil
	case "augassign":
		target, err := decodeExpr(r.Targets[0])
		if err != nil {
			return nil, err
		}
		v, err := decodeExpr(*r.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{Target: target, Op: ast.BinOp(r.Op), Value: v}, nil
	case "if":
		cond, err := decodeExpr(*r.Cond)
		if err != nil {
			return nil, err
		}
		thenBody, err := decodeStmts(r.Then)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeStmts(r.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: thenBody, Else: elseBody}, nil
	case "while":
		cond, err := decodeExpr(*r.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(r.Body)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeStmts(r.Else)
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body, Else: elseBody}, nil
	default:
		return nil, fmt.Errorf("astjson: unrecognized statement kind %q", r.Kind)
	}
}

func decodeExpr(r rawNode) (ast.Expr, error) {
	switch r.Kind {
	case "int":
		return &ast.IntLit{Value: *r.Int}, nil
	case "float":
		return &ast.FloatLit{Value: *r.Float}, nil
	case "bool":
		return &ast.BoolLit{Value: *r.Bool}, nil
	case "str":
		return &ast.StringLit{Value: *r.Str}, nil
	case "none":
		return &ast.NoneLit{}, nil
	case "name":
		return &ast.Name{Ident: r.Ident}, nil
	case "binop":
		l, err := decodeExpr(*r.Left)
		if err != nil {
			return nil, err
		}
		rt, err := decodeExpr(*r.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: ast.BinOp(r.Op), Left: l, Right: rt}, nil
	case "unop":
		o, err := decodeExpr(*r.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnOp(r.Op), Operand: o}, nil
	case "compare":
		l, err := decodeExpr(*r.Left)
		if err != nil {
			return nil, err
		}
		ops := make([]ast.CmpOp, len(r.Ops))
		for i, o := range r.Ops {
			ops[i] = ast.CmpOp(o)
		}
		comps := make([]ast.Expr, 0, len(r.Comparators))
		for _, c := range r.Comparators {
			ce, err := decodeExpr(c)
			if err != nil {
				return nil, err
			}
			comps = append(comps, ce)
		}
		return &ast.CompareChain{Left: l, Ops: ops, Comparators: comps}, nil
	case "call":
		fn, err := decodeExpr(*r.Func)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(r.Args))
		for _, a := range r.Args {
			ae, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
		return &ast.Call{Func: fn, Args: args}, nil
	default:
		return nil, fmt.Errorf("astjson: unrecognized expression kind %q", r.Kind)
	}
}
