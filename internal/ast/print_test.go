package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintDeterministic(t *testing.T) {
	lit := &IntLit{Value: 42}
	first := Print(lit)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Print(lit), "Print must be byte-identical across repeated calls")
	}
}

func TestPrintBinaryOp(t *testing.T) {
	expr := &BinaryOp{Op: OpAdd, Left: &IntLit{Value: 1}, Right: &IntLit{Value: 2}}
	out := Compact(expr)
	require.Contains(t, out, `"type":"BinaryOp"`)
	require.Contains(t, out, `"op":"+"`)
}

func TestPrintCall(t *testing.T) {
	call := &Call{
		Func: &Name{Ident: "f", Ctx: Load},
		Args: []Expr{&IntLit{Value: 1}},
		Kwargs: []Kwarg{
			{Name: "verbose", Value: &BoolLit{Value: true}},
		},
	}
	out := Print(call)
	require.Contains(t, out, "Call")
	require.Contains(t, out, "verbose")
}

func TestPrintNilNode(t *testing.T) {
	require.Equal(t, "null", Print(nil))
}
