package types

import "github.com/sunholo/pycc/internal/ast"

// ParamSig is one parameter's resolved signature entry, mirroring the
// per-parameter record of spec section 3.3.
type ParamSig struct {
	Name        string
	Kind        Mask
	IsVarArg    bool
	IsKwVarArg  bool
	IsKwOnly    bool
	IsPosOnly   bool
	HasDefault  bool
	UnionMask   Mask // annotated union, when the parameter has one
	ListElemMask Mask // annotated list-element kind, when applicable
}

// Signature records a function: its return kind, a positional-only fast
// path for the common case, and the full parameter list for everything
// else (spec section 3.3).
type Signature struct {
	Name         string
	ReturnKind   Mask
	SimpleParams []Mask // fast path: every parameter is simple-positional
	FullParams   []ParamSig
}

// IsSimple reports whether this signature can use the positional-only
// fast path (no varargs, no keyword-only, no defaults).
func (s *Signature) IsSimple() bool {
	if s.FullParams == nil {
		return true
	}
	for _, p := range s.FullParams {
		if p.IsVarArg || p.IsKwVarArg || p.IsKwOnly || p.HasDefault {
			return false
		}
	}
	return true
}

// ClassInfo records a class: its method table, base list, and the kinds
// of attributes assigned directly (not through a method) (spec section
// 3.3).
type ClassInfo struct {
	Name            string
	Methods         map[string]*Signature
	Bases           []string
	AttributeKinds  map[string]Mask
}

// NewClassInfo returns an empty ClassInfo ready for collection.
func NewClassInfo(name string) *ClassInfo {
	return &ClassInfo{
		Name:           name,
		Methods:        make(map[string]*Signature),
		AttributeKinds: make(map[string]Mask),
	}
}

// ClassTable maps class name -> ClassInfo across a module.
type ClassTable struct {
	classes map[string]*ClassInfo
}

// NewClassTable returns an empty table.
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassInfo)}
}

// Define registers (or replaces) a class.
func (t *ClassTable) Define(ci *ClassInfo) { t.classes[ci.Name] = ci }

// Lookup returns a class by name.
func (t *ClassTable) Lookup(name string) (*ClassInfo, bool) {
	ci, ok := t.classes[name]
	return ci, ok
}

// LinearizeBases merges inherited methods/attributes into every class in
// the table, left-to-right over each class's Bases list, skipping methods
// already overridden in the subclass (spec section 3.3: "bases are merged
// (linearized left-to-right, methods from bases inherited when not
// overridden)"). Must be called once after all classes in a module have
// been collected, since a class may list a base defined later in the
// file.
func (t *ClassTable) LinearizeBases() {
	visited := make(map[string]bool)
	var linearize func(name string)
	linearize = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		ci, ok := t.classes[name]
		if !ok {
			return
		}
		for _, baseName := range ci.Bases {
			linearize(baseName)
			base, ok := t.classes[baseName]
			if !ok {
				continue
			}
			for mName, sig := range base.Methods {
				if _, overridden := ci.Methods[mName]; !overridden {
					ci.Methods[mName] = sig
				}
			}
			for aName, kind := range base.AttributeKinds {
				if _, overridden := ci.AttributeKinds[aName]; !overridden {
					ci.AttributeKinds[aName] = kind
				}
			}
		}
	}
	for name := range t.classes {
		linearize(name)
	}
}

// SignatureTable maps a free function's name to its Signature.
type SignatureTable struct {
	funcs map[string]*Signature
}

// NewSignatureTable returns an empty table.
func NewSignatureTable() *SignatureTable {
	return &SignatureTable{funcs: make(map[string]*Signature)}
}

// Define registers (or replaces) a function signature.
func (t *SignatureTable) Define(sig *Signature) { t.funcs[sig.Name] = sig }

// Lookup returns a function's signature by name.
func (t *SignatureTable) Lookup(name string) (*Signature, bool) {
	sig, ok := t.funcs[name]
	return sig, ok
}

// FromFuncDef builds a Signature from a parsed function declaration's
// parameter list, leaving kinds unresolved (ast.TypeUnknown / mask 0)
// where no annotation was given — the expression typer fills these in as
// calls are type-checked against the body.
func FromFuncDef(fn *ast.FuncDef) *Signature {
	sig := &Signature{Name: fn.Name}
	if fn.ReturnType != nil {
		sig.ReturnKind = FromKind(*fn.ReturnType)
	}
	sig.FullParams = make([]ParamSig, len(fn.Params))
	for i, p := range fn.Params {
		ps := ParamSig{
			Name:       p.Name,
			IsVarArg:   p.IsVarArg,
			IsKwVarArg: p.IsKwVarArg,
			IsKwOnly:   p.IsKwOnly,
			IsPosOnly:  p.IsPosOnly,
			HasDefault: p.HasDefault,
		}
		if p.Annotated != nil {
			ps.Kind = FromKind(*p.Annotated)
			ps.UnionMask = ps.Kind
		}
		sig.FullParams[i] = ps
	}
	if sig.IsSimple() {
		sig.SimpleParams = make([]Mask, len(sig.FullParams))
		for i, p := range sig.FullParams {
			sig.SimpleParams[i] = p.Kind
		}
	}
	return sig
}
