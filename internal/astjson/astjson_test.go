package astjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestDecodeFunctionWithArithmeticAndReturn(t *testing.T) {
	doc := []byte(`{
		"path": "add.py",
		"funcs": [{
			"name": "add",
			"params": [{"name": "a", "type": "int"}, {"name": "b", "type": "int"}],
			"return_type": "int",
			"body": [
				{"kind": "return", "value": {
					"kind": "binop", "op": "+",
					"left": {"kind": "name", "ident": "a"},
					"right": {"kind": "name", "ident": "b"}
				}}
			]
		}]
	}`)

	m, err := Decode(doc)
	require.NoError(t, err)
	require.Equal(t, "add.py", m.Path)
	require.Len(t, m.Funcs, 1)

	fn := m.Funcs[0]
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, ast.TypeInt, *fn.Params[0].Annotated)
	require.NotNil(t, fn.ReturnType)
	require.Equal(t, ast.TypeInt, *fn.ReturnType)

	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
}

func TestDecodeIfWhileAndCompareChain(t *testing.T) {
	doc := []byte(`{
		"path": "loop.py",
		"funcs": [{
			"name": "count",
			"params": [{"name": "n", "type": "int"}],
			"return_type": "int",
			"body": [
				{"kind": "assign", "targets": [{"kind": "name", "ident": "total"}],
				 "value": {"kind": "int", "int": 0}},
				{"kind": "while",
				 "cond": {"kind": "compare", "left": {"kind": "name", "ident": "n"},
				          "ops": [">"], "comparators": [{"kind": "int", "int": 0}]},
				 "body": [
					{"kind": "augassign", "targets": [{"kind": "name", "ident": "total"}],
					 "op": "+", "value": {"kind": "name", "ident": "n"}}
				 ]},
				{"kind": "if",
				 "cond": {"kind": "compare", "left": {"kind": "name", "ident": "total"},
				          "ops": ["=="], "comparators": [{"kind": "int", "int": 0}]},
				 "then": [{"kind": "return", "value": {"kind": "bool", "bool": true}}],
				 "else": [{"kind": "return", "value": {"kind": "bool", "bool": false}}]}
			]
		}]
	}`)

	m, err := Decode(doc)
	require.NoError(t, err)
	fn := m.Funcs[0]
	require.Len(t, fn.Body, 3)

	wh, ok := fn.Body[1].(*ast.While)
	require.True(t, ok)
	cmp, ok := wh.Cond.(*ast.CompareChain)
	require.True(t, ok)
	require.Equal(t, []ast.CmpOp{ast.CmpGt}, cmp.Ops)

	ifs, ok := fn.Body[2].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
}

func TestDecodeCallExpression(t *testing.T) {
	doc := []byte(`{
		"path": "call.py",
		"funcs": [{
			"name": "main",
			"params": [],
			"body": [
				{"kind": "expr", "value": {
					"kind": "call",
					"func": {"kind": "name", "ident": "print"},
					"args": [{"kind": "str", "str": "hi"}]
				}}
			]
		}]
	}`)

	m, err := Decode(doc)
	require.NoError(t, err)
	es, ok := m.Funcs[0].Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := es.Value.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "print", call.Func.(*ast.Name).Ident)
	require.Equal(t, "hi", call.Args[0].(*ast.StringLit).Value)
}

func TestDecodeRejectsUnknownStatementKind(t *testing.T) {
	doc := []byte(`{"path": "bad.py", "funcs": [{"name": "f", "params": [],
		"body": [{"kind": "match"}]}]}`)
	_, err := Decode(doc)
	require.Error(t, err)
}
