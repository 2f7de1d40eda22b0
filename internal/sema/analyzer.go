// Package sema implements pycc's semantic analyzer: the expression typer,
// statement checker, condition refiner, and effect/trait scans of spec
// section 4.1. It walks an already-parsed ast.Module, annotating
// expressions in place with inferred type kinds and canonical keys, and
// accumulates diagnostics rather than stopping at the first error (spec
// section 4.1.5).
package sema

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/diag"
	"github.com/sunholo/pycc/internal/types"
)

// StdlibSignature is one typed fast-path entry for a recognized
// standard-library surface function (spec section 4.1.1 Call rule 2):
// `module.attr(...)`. Only arity and return kind are modeled; argument
// kinds are not checked against the shim (the shim's own body is an
// external collaborator, spec section 1).
type StdlibSignature struct {
	MinArgs, MaxArgs int // MaxArgs < 0 means unbounded (vararg shim)
	Return           types.Mask
}

// Analyzer holds the tables that persist across a whole module: function
// signatures, class info, the stdlib fast-path table, and the
// polymorphic-alias table used when a call's callee cannot be resolved to
// a single name directly (spec section 4.1.1 Call rule 1).
type Analyzer struct {
	Sigs    *types.SignatureTable
	Classes *types.ClassTable
	Stdlib  map[string]map[string]StdlibSignature
	Aliases map[string][]string // variable name -> candidate function names

	Diags       diag.Bag
	MayRaise    map[ast.Stmt]bool
	FuncFlags   map[*ast.FuncDef]FuncFlags
	ReturnParam map[string]int // function name -> forwarded parameter index, or -1
	MatchTrees  map[*ast.Match]DecisionTree
}

// FuncFlags records the trait-scan result for one function (spec section
// 4.1.4).
type FuncFlags struct {
	IsGenerator bool
	IsCoroutine bool
}

// NewAnalyzer creates an Analyzer pre-populated with a conservative stdlib
// fast-path table covering the module surfaces named in spec section
// 6.2 that have simple, fixed-arity signatures worth fast-pathing in
// sema; the rest resolve to an opaque call (rule 2's fallback).
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		Sigs:        types.NewSignatureTable(),
		Classes:     types.NewClassTable(),
		Stdlib:      defaultStdlibSurface(),
		Aliases:     make(map[string][]string),
		MayRaise:    make(map[ast.Stmt]bool),
		FuncFlags:   make(map[*ast.FuncDef]FuncFlags),
		ReturnParam: make(map[string]int),
		MatchTrees:  make(map[*ast.Match]DecisionTree),
	}
	return a
}

func defaultStdlibSurface() map[string]map[string]StdlibSignature {
	return map[string]map[string]StdlibSignature{
		"math": {
			"sqrt":  {1, 1, types.MFloat},
			"floor": {1, 1, types.MInt},
			"ceil":  {1, 1, types.MInt},
			"pow":   {2, 2, types.MFloat},
			"fabs":  {1, 1, types.MFloat},
		},
		"sys": {
			"exit": {0, 1, types.MNone},
		},
		"subprocess": {
			"run":       {1, -1, 0}, // opaque Object return
			"call":      {1, -1, types.MInt},
			"check_call": {1, -1, types.MInt},
		},
		"os": {
			"getenv":  {1, 2, types.MStr | types.MNone},
			"getcwd":  {0, 0, types.MStr},
		},
		"time": {
			"time": {0, 0, types.MFloat},
		},
		"argparse": {
			// Only the `argparse.ArgumentParser(...)` constructor call
			// form is covered, returning an opaque object; a later
			// `parser.parse_args()` is an opaque attribute call.
			"ArgumentParser": {0, -1, 0},
		},
		"json": {
			"dumps": {1, 1, types.MStr},
		},
		"struct": {
			"calcsize": {1, 1, types.MInt},
		},
	}
}

// AnalyzeModule type-checks every top-level statement, function body, and
// class body in m, returning true only when no diagnostics were produced
// (spec section 4.1.5).
func (a *Analyzer) AnalyzeModule(m *ast.Module) bool {
	// Pass 1: collect class tables so forward references to sibling
	// classes (bases defined later in the file) resolve.
	for _, cd := range m.Classes {
		a.collectClass(cd)
	}
	a.Classes.LinearizeBases()

	// Pass 2: collect top-level function signatures before checking any
	// body, so mutual recursion and forward calls resolve.
	for _, fn := range m.Funcs {
		a.Sigs.Define(types.FromFuncDef(fn))
		a.FuncFlags[fn] = ScanFnTraits(fn)
	}

	// Pass 3: check bodies.
	env := types.NewEnv()
	for _, stmt := range m.Body {
		a.checkStmt(env, stmt, nil)
	}
	for _, fn := range m.Funcs {
		a.checkFunc(fn)
	}
	for _, cd := range m.Classes {
		a.checkClassBody(cd)
	}

	// Pass 4: effect scan over every statement in the module (spec
	// section 4.1.4), run after type checking since it is purely
	// syntactic and does not need resolved kinds.
	ScanEffects(m, a.MayRaise)

	// Pass 5: returnParamIdx scan, one function at a time (spec section
	// 4.1.4, supplemented per SPEC_FULL section C to keep this a
	// separate pass from the trait scan).
	for _, fn := range m.Funcs {
		a.ReturnParam[fn.Name] = ScanReturnParamIdx(fn)
	}

	return a.Diags.OK()
}

func (a *Analyzer) collectClass(cd *ast.ClassDef) {
	ci := types.NewClassInfo(cd.Name)
	ci.Bases = append(ci.Bases, cd.Bases...)
	for _, stmt := range cd.Body {
		switch s := stmt.(type) {
		case *ast.FuncDef:
			ci.Methods[s.Name] = types.FromFuncDef(s)
		case *ast.Assign:
			for _, t := range s.Targets {
				if name, ok := t.(*ast.Name); ok {
					ci.AttributeKinds[name.Ident] = 0
				}
			}
		}
	}
	a.Classes.Define(ci)
}

func (a *Analyzer) checkFunc(fn *ast.FuncDef) {
	env := types.NewEnv()
	for _, p := range fn.Params {
		mask := types.Mask(0)
		if p.Annotated != nil {
			mask = types.FromKind(*p.Annotated)
		}
		env.Define(p.Name, mask, types.ProvParam)
	}
	var retKind types.Mask
	if fn.ReturnType != nil {
		retKind = types.FromKind(*fn.ReturnType)
	}
	ctx := &funcCtx{retKind: retKind, fn: fn}
	for _, stmt := range fn.Body {
		a.checkStmt(env, stmt, ctx)
	}
}

func (a *Analyzer) checkClassBody(cd *ast.ClassDef) {
	for _, stmt := range cd.Body {
		if fn, ok := stmt.(*ast.FuncDef); ok {
			a.FuncFlags[fn] = ScanFnTraits(fn)
			a.checkFunc(fn)
		}
	}
}

// funcCtx threads the information the statement checker needs about the
// function it is currently inside (spec section 4.1.2 Return).
type funcCtx struct {
	retKind types.Mask
	fn      *ast.FuncDef
}

func (a *Analyzer) errorf(code string, pos ast.Pos, format string, args ...interface{}) {
	a.Diags.Add(diag.New(code, pos.File, pos.Line, pos.Col, fmt.Sprintf(format, args...)))
}
