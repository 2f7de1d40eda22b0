package codegen

import (
	"fmt"
	"strings"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/diag"
	"github.com/sunholo/pycc/internal/sema"
)

// Generator lowers one sema-annotated, optimizer-rewritten ast.Module to
// LLVM IR text (spec section 4.3). It holds state shared across every
// function in the module: the interned string pool, debug metadata
// counters, and the analyzer tables codegen reads (return kinds,
// interprocedural return-param forwarding) but never mutates.
type Generator struct {
	Analyzer *sema.Analyzer
	Diags    diag.Bag

	strs *stringPool
	dbg  *debugBuilder
}

// NewGenerator returns a Generator ready to lower modules typed by a.
func NewGenerator(a *sema.Analyzer) *Generator {
	return &Generator{Analyzer: a, strs: newStringPool(), dbg: newDebugBuilder()}
}

// GenerateIR renders m as a complete LLVM IR text module: target triple,
// runtime declarations, string globals, one function per ast.FuncDef, and
// a trailing debug-metadata block (spec section 4.3.1 "IR text emission").
// It never invokes an external toolchain; see Driver for that.
func (g *Generator) GenerateIR(m *ast.Module) (string, error) {
	g.dbg.filePath = m.Path

	var body strings.Builder
	for _, fn := range m.Funcs {
		fe := newFuncEmitter(g, fn)
		if err := fe.emit(); err != nil {
			return "", err
		}
		body.WriteString(fe.ir.String())
		body.WriteByte('\n')
	}

	var out strings.Builder
	out.WriteString("; ModuleID = '")
	out.WriteString(m.Path)
	out.WriteString("'\n")
	out.WriteString("target datalayout = \"e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128\"\n")
	out.WriteString("target triple = \"x86_64-unknown-linux-gnu\"\n\n")

	for _, decl := range runtimeDecls {
		out.WriteString(decl)
		out.WriteByte('\n')
	}
	out.WriteByte('\n')

	out.WriteString(g.strs.emitGlobals())
	out.WriteByte('\n')

	out.WriteString(body.String())

	out.WriteString(g.dbg.emitTrailer(m.Path))
	return out.String(), nil
}

func (g *Generator) codErr(file string, line, col int, format string, a ...any) error {
	d := diag.New(diag.COD001, file, line, col, fmt.Sprintf(format, a...))
	g.Diags.Add(d)
	return fmt.Errorf("%s", d.String())
}

func (g *Generator) unhandled(file string, line, col int, kind ast.NodeKind) error {
	d := diag.New(diag.COD002, file, line, col, fmt.Sprintf("unhandled node kind %s", kind))
	g.Diags.Add(d)
	return fmt.Errorf("%s", d.String())
}

func (g *Generator) missingTag(file string, line, col int, what string) error {
	d := diag.New(diag.COD003, file, line, col, fmt.Sprintf("missing pointer tag for %s", what))
	g.Diags.Add(d)
	return fmt.Errorf("%s", d.String())
}
