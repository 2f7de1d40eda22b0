package ast

import "fmt"

// Module is the parsed form of one source file — "each source file
// becomes one Module containing function and class definitions" (spec
// section 2). Sema annotates it in place; the optimizer rewrites it in
// place; codegen makes a final read-only pass over it.
type Module struct {
	Path    string
	Funcs   []*FuncDef
	Classes []*ClassDef
	Body    []Stmt // top-level statements outside any function
}

// Diagnostic is a single compiler-reported problem, spanning phases from
// sema through the codegen driver (spec section 3.6 / section 7).
type Diagnostic struct {
	Message string
	File    string
	Line    int
	Col     int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Col, d.Message)
}
