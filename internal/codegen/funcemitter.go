package codegen

import (
	"fmt"
	"strings"

	"github.com/sunholo/pycc/internal/ast"
)

// slot is one local variable's alloca: its pointer register, the kind it
// was first defined with (kind cannot change across reassignment within a
// function, mirroring the original's "assignment type changed" check),
// and — for Ptr-kind slots — the narrowing tag.
type slot struct {
	ptr string
	knd ValueKind
	tag PointerTag
}

// funcEmitter lowers a single ast.FuncDef into an LLVM IR function body.
// It owns everything scoped to one function: the SSA temp counter, label
// counters for each control-flow shape, and the slot table for that
// function's locals and parameters.
type funcEmitter struct {
	g  *Generator
	fn *ast.FuncDef

	ir   strings.Builder
	temp int

	ifCounter    int
	loopCounter  int
	scCounter    int // short-circuit and/or counter
	slots        map[string]*slot
	returned     bool
	loopBreakLbl []string
	loopContLbl  []string
}

func newFuncEmitter(g *Generator, fn *ast.FuncDef) *funcEmitter {
	return &funcEmitter{g: g, fn: fn, slots: make(map[string]*slot)}
}

func (fe *funcEmitter) newTemp() string {
	t := fmt.Sprintf("%%t%d", fe.temp)
	fe.temp++
	return t
}

func (fe *funcEmitter) pos(p ast.Pos) (string, int, int) {
	file := p.File
	if file == "" {
		file = fe.g.dbg.filePath
	}
	return file, p.Line, p.Col
}

func (fe *funcEmitter) returnKind() ValueKind {
	if fe.fn.ReturnType == nil {
		return KindPtr
	}
	return valueKindOf(*fe.fn.ReturnType)
}

// emit renders the function's signature, allocates parameter slots, lowers
// the body, and synthesizes a trailing default return if control can fall
// off the end (spec section 4.3.2 "Per-function lowering").
func (fe *funcEmitter) emit() error {
	retKind := fe.returnKind()
	var params []string
	for _, p := range fe.fn.Params {
		k := KindPtr
		if p.Annotated != nil {
			k = valueKindOf(*p.Annotated)
		}
		params = append(params, fmt.Sprintf("%s %%%s", k.llvm(), p.Name))
	}
	fe.ir.WriteString(fmt.Sprintf("define %s @%s(%s) {\n", retKind.llvm(), fe.fn.Name, strings.Join(params, ", ")))
	fe.ir.WriteString("entry:\n")

	for _, p := range fe.fn.Params {
		k := KindPtr
		tag := TagUnknown
		if p.Annotated != nil {
			k = valueKindOf(*p.Annotated)
			tag = pointerTagOf(*p.Annotated)
		}
		addr := "%" + p.Name + ".addr"
		fe.ir.WriteString(fmt.Sprintf("  %s = alloca %s\n", addr, k.llvm()))
		if k == KindPtr {
			fe.ir.WriteString(fmt.Sprintf("  call void @gc_register_root(ptr %s)\n", addr))
		}
		fe.ir.WriteString(fmt.Sprintf("  store %s %%%s, ptr %s\n", k.llvm(), p.Name, addr))
		fe.slots[p.Name] = &slot{ptr: addr, knd: k, tag: tag}
	}

	if err := fe.emitStmtList(fe.fn.Body); err != nil {
		return err
	}
	if !fe.returned {
		fe.emitDefaultReturn(retKind)
	}
	fe.ir.WriteString("}\n")
	return nil
}

// emitDefaultReturn synthesizes the fallthrough return every function
// needs when its body does not end in an unconditional return (spec
// section 4.3.2).
func (fe *funcEmitter) emitDefaultReturn(k ValueKind) {
	switch k {
	case KindI32:
		fe.ir.WriteString("  ret i32 0\n")
	case KindI1:
		fe.ir.WriteString("  ret i1 false\n")
	case KindF64:
		fe.ir.WriteString("  ret double 0.0\n")
	default:
		fe.ir.WriteString("  ret ptr null\n")
	}
}

// emitStmtList lowers a statement block and reports whether it
// unconditionally terminated (returned/raised), so callers (If/While/Try)
// know whether to synthesize a trailing branch to their join block.
func (fe *funcEmitter) emitStmtList(body []ast.Stmt) error {
	for _, st := range body {
		if err := fe.emitStmt(st); err != nil {
			return err
		}
		if fe.returned {
			break
		}
	}
	return nil
}
