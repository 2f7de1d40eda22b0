package types

// Provenance records why a name carries the mask it does, for diagnostic
// messages ("x is int|None because of the assignment at line 12").
type Provenance string

const (
	ProvParam      Provenance = "param"
	ProvAssign     Provenance = "assign"
	ProvRefine     Provenance = "refine"
	ProvForTarget  Provenance = "for-target"
	ProvCatch      Provenance = "except-handler"
	ProvBuiltin    Provenance = "builtin"
	ProvUnknown    Provenance = "unknown"
)

// binding is one name's entry in a TypeEnv.
type binding struct {
	mask Mask
	prov Provenance
}

// Env maps name -> (mask, provenance), plus the supplementary maps used
// for parameterized aggregates (spec section 3.2): listElems[name] is the
// element-kind mask of a name known to be a list, tupleElems[name][index]
// is the kind of one constant tuple slot.
type Env struct {
	bindings    map[string]binding
	listElems   map[string]Mask
	tupleElems  map[string]map[int]Mask
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{
		bindings:   make(map[string]binding),
		listElems:  make(map[string]Mask),
		tupleElems: make(map[string]map[int]Mask),
	}
}

// Clone makes an independent copy, used whenever a statement checker
// forks the environment for a branch (spec section 4.1.2 If/While/For).
func (e *Env) Clone() *Env {
	out := NewEnv()
	for k, v := range e.bindings {
		out.bindings[k] = v
	}
	for k, v := range e.listElems {
		out.listElems[k] = v
	}
	for k, m := range e.tupleElems {
		cp := make(map[int]Mask, len(m))
		for i, v := range m {
			cp[i] = v
		}
		out.tupleElems[k] = cp
	}
	return out
}

// Lookup returns the mask bound to name and whether it is bound at all.
func (e *Env) Lookup(name string) (Mask, bool) {
	b, ok := e.bindings[name]
	return b.mask, ok
}

// Define binds name to exactly mask, replacing any previous binding. Used
// for a name's first assignment, a parameter, or a for-target.
func (e *Env) Define(name string, mask Mask, prov Provenance) {
	e.bindings[name] = binding{mask: mask, prov: prov}
}

// DefineSet is an alias for Define kept distinct from UnionSet so call
// sites read as "this is the definition" vs "this widens an existing
// binding" (spec section 3.2 operation list).
func (e *Env) DefineSet(name string, mask Mask, prov Provenance) { e.Define(name, mask, prov) }

// UnionSet widens name's mask by unioning in mask — used when a name is
// assigned more than once with differing kinds (spec section 4.1.2
// Assignment: "widen its entry via unionSet").
func (e *Env) UnionSet(name string, mask Mask, prov Provenance) {
	if b, ok := e.bindings[name]; ok {
		e.bindings[name] = binding{mask: b.mask.Union(mask), prov: prov}
		return
	}
	e.bindings[name] = binding{mask: mask, prov: prov}
}

// RestrictToKind narrows name's mask to its intersection with sub — used
// by the condition refiner's then-branch for `isinstance(x, T)`.
func (e *Env) RestrictToKind(name string, sub Mask) {
	if b, ok := e.bindings[name]; ok {
		e.bindings[name] = binding{mask: b.mask.Restrict(sub), prov: ProvRefine}
	}
}

// ExcludeKind removes sub from name's mask — used by the condition
// refiner's else-branch for `isinstance(x, T)`.
func (e *Env) ExcludeKind(name string, sub Mask) {
	if b, ok := e.bindings[name]; ok {
		e.bindings[name] = binding{mask: b.mask.Exclude(sub), prov: ProvRefine}
	}
}

// MarkNonNone removes MNone from name's mask — used by the refiner for
// `x != None` / `x is not None` (spec section 4.1.3).
func (e *Env) MarkNonNone(name string) { e.ExcludeKind(name, MNone) }

// SetListElem records the element-kind mask of a name known to hold a
// list.
func (e *Env) SetListElem(name string, elem Mask) { e.listElems[name] = elem }

// ListElem returns the element-kind mask recorded for name, if any.
func (e *Env) ListElem(name string) (Mask, bool) {
	m, ok := e.listElems[name]
	return m, ok
}

// SetTupleElem records the kind of tuple slot index of a name known to
// hold a tuple.
func (e *Env) SetTupleElem(name string, index int, kind Mask) {
	m, ok := e.tupleElems[name]
	if !ok {
		m = make(map[int]Mask)
		e.tupleElems[name] = m
	}
	m[index] = kind
}

// TupleElem returns the kind recorded for tuple slot index of name.
func (e *Env) TupleElem(name string, index int) (Mask, bool) {
	m, ok := e.tupleElems[name]
	if !ok {
		return 0, false
	}
	k, ok := m[index]
	return k, ok
}

// IntersectFrom computes the join semantics used after conditional
// branches (spec section 3.2): a name survives only if both thenEnv and
// elseEnv bound it, with the merged mask equal to the union of the two
// branch masks. IntersectFrom(E, E) == E for any E (spec section 8).
func IntersectFrom(thenEnv, elseEnv *Env) *Env {
	out := NewEnv()
	for name, tb := range thenEnv.bindings {
		if eb, ok := elseEnv.bindings[name]; ok {
			out.bindings[name] = binding{mask: tb.mask.Union(eb.mask), prov: ProvRefine}
		}
	}
	for name, tm := range thenEnv.listElems {
		if em, ok := elseEnv.listElems[name]; ok {
			out.listElems[name] = tm.Union(em)
		}
	}
	for name, tm := range thenEnv.tupleElems {
		if em, ok := elseEnv.tupleElems[name]; ok {
			slots := make(map[int]Mask)
			for i, k := range tm {
				if ek, ok := em[i]; ok {
					slots[i] = k.Union(ek)
				}
			}
			out.tupleElems[name] = slots
		}
	}
	return out
}

// ApplyMerged replaces e's bindings with merged's, in place — the
// statement checker calls this after computing IntersectFrom so that
// statements following the branch see the merged environment without the
// caller having to track two Env pointers.
func (e *Env) ApplyMerged(merged *Env) {
	e.bindings = merged.bindings
	e.listElems = merged.listElems
	e.tupleElems = merged.tupleElems
}
