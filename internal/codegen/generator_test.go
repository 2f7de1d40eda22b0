package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/sema"
)

func intT(k ast.TypeKind) *ast.TypeKind { return &k }

// addFn returns a simple two-int-parameter function computing a+b, typed as
// sema would annotate it (return type resolved, no further annotation
// needed for codegen's own lowering).
func addFn() *ast.FuncDef {
	ret := ast.TypeInt
	return &ast.FuncDef{
		Name: "add",
		Params: []*ast.Param{
			{Name: "a", Annotated: intT(ast.TypeInt)},
			{Name: "b", Annotated: intT(ast.TypeInt)},
		},
		ReturnType: &ret,
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinaryOp{
				Op:    ast.OpAdd,
				Left:  &ast.Name{Ident: "a", Ctx: ast.Load},
				Right: &ast.Name{Ident: "b", Ctx: ast.Load},
			}},
		},
	}
}

func TestGenerateIREmitsFunctionSignatureAndBody(t *testing.T) {
	g := NewGenerator(sema.NewAnalyzer())
	m := &ast.Module{Path: "add.pycc", Funcs: []*ast.FuncDef{addFn()}}

	ir, err := g.GenerateIR(m)

	require.NoError(t, err)
	require.Contains(t, ir, "define i32 @add(i32 %a, i32 %b) {")
	require.Contains(t, ir, "add i32")
	require.Contains(t, ir, "ret i32")
	require.Contains(t, ir, "declare void @gc_write_barrier(ptr, ptr)")
}

func TestGenerateIRSynthesizesDefaultReturnOnFallthrough(t *testing.T) {
	g := NewGenerator(sema.NewAnalyzer())
	ret := ast.TypeBool
	fn := &ast.FuncDef{Name: "maybe", ReturnType: &ret, Body: []ast.Stmt{&ast.Pass{}}}
	m := &ast.Module{Path: "maybe.pycc", Funcs: []*ast.FuncDef{fn}}

	ir, err := g.GenerateIR(m)

	require.NoError(t, err)
	require.Contains(t, ir, "ret i1 false")
}

func TestGenerateIRReportsUnhandledNodeKind(t *testing.T) {
	g := NewGenerator(sema.NewAnalyzer())
	fn := &ast.FuncDef{Name: "bad", Body: []ast.Stmt{
		&ast.ExprStmt{Value: &ast.Lambda{Body: &ast.IntLit{Value: 1}}},
	}}
	m := &ast.Module{Path: "bad.pycc", Funcs: []*ast.FuncDef{fn}}

	_, err := g.GenerateIR(m)

	require.Error(t, err)
	require.False(t, g.Diags.OK())
	require.Equal(t, "COD002", g.Diags.Items()[0].Code)
}

func TestGenerateIRInternsStringLiteralsOnce(t *testing.T) {
	g := NewGenerator(sema.NewAnalyzer())
	retStr := ast.TypeStr
	fn := &ast.FuncDef{
		Name:       "greet",
		ReturnType: &retStr,
		Body: []ast.Stmt{
			&ast.Assign{
				Targets: []ast.AssignTarget{&ast.Name{Ident: "a", Ctx: ast.Store}},
				Value:   &ast.StringLit{Value: "hi"},
			},
			&ast.Assign{
				Targets: []ast.AssignTarget{&ast.Name{Ident: "b", Ctx: ast.Store}},
				Value:   &ast.StringLit{Value: "hi"},
			},
			&ast.Return{Value: &ast.Name{Ident: "a", Ctx: ast.Load}},
		},
	}
	m := &ast.Module{Path: "greet.pycc", Funcs: []*ast.FuncDef{fn}}

	ir, err := g.GenerateIR(m)

	require.NoError(t, err)
	require.Equal(t, 1, len(g.strs.order))
	require.Contains(t, ir, `c"hi\00"`)
}
