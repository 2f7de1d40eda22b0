package codegen

import (
	"fmt"
	"strings"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/types"
)

// evalCall dispatches a call expression: the handful of builtins codegen
// special-cases (len, isinstance, and the list.append() method form), a
// stdlib fast-path shim lookup, or a plain direct function call
// (spec section 4.3.2 "Call lowering").
func (fe *funcEmitter) evalCall(n *ast.Call) (Value, error) {
	if attr, ok := n.Func.(*ast.Attribute); ok && attr.Attr == "append" && len(n.Args) == 1 {
		if fe.nameTag(attr.Base) == TagList {
			base, err := fe.eval(attr.Base)
			if err != nil {
				return Value{}, err
			}
			v, err := fe.eval(n.Args[0])
			if err != nil {
				return Value{}, err
			}
			boxed := fe.box(v)
			slotPtr := fe.newTemp()
			fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @list_push_slot(ptr %s)\n", slotPtr, base.Name))
			fe.ir.WriteString(fmt.Sprintf("  store ptr %s, ptr %s\n", boxed, slotPtr))
			fe.ir.WriteString(fmt.Sprintf("  call void @gc_write_barrier(ptr %s, ptr %s)\n", slotPtr, boxed))
			return Value{Name: "null", Kind: KindPtr}, nil
		}
	}

	if attr, ok := n.Func.(*ast.Attribute); ok {
		if mod, ok := attr.Base.(*ast.Name); ok {
			key := mod.Ident + "_" + attr.Attr
			if shim, ok := fe.lookupStdlibShim(key); ok {
				return fe.evalStdlibCall(n, key, shim)
			}
		}
	}

	name, ok := calleeName(n.Func)
	if !ok {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "call target must be a direct name or list.append()")
	}

	switch name {
	case "len":
		return fe.evalLen(n)
	case "isinstance":
		return fe.evalIsinstance(n)
	}

	if sig, ok := fe.g.Analyzer.Sigs.Lookup(name); ok {
		return fe.evalDirectCall(n, name, sig)
	}
	if shim, ok := fe.lookupStdlibShim(name); ok {
		return fe.evalStdlibCall(n, name, shim)
	}

	file, line, col := fe.pos(n.Position())
	return Value{}, fe.g.codErr(file, line, col, "call to unresolved function %q", name)
}

func calleeName(e ast.Expr) (string, bool) {
	if n, ok := e.(*ast.Name); ok {
		return n.Ident, true
	}
	return "", false
}

// evalLen lowers the len() builtin, dispatching on the argument's pointer
// tag since lists, dicts, and strings each have their own length entry
// point (spec section 4.3.2).
func (fe *funcEmitter) evalLen(n *ast.Call) (Value, error) {
	if len(n.Args) != 1 {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "len() takes exactly one argument")
	}
	arg := n.Args[0]
	tag := fe.resolveArgTag(arg)
	v, err := fe.eval(arg)
	if err != nil {
		return Value{}, err
	}
	var fn string
	switch tag {
	case TagStr:
		fn = "string_charlen"
	case TagList:
		fn = "list_len"
	case TagDict:
		fn = "dict_len"
	default:
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.missingTag(file, line, col, "len() argument")
	}
	lenReg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call i64 @%s(ptr %s)\n", lenReg, fn, v.Name))
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = trunc i64 %s to i32\n", reg, lenReg))
	return Value{Name: reg, Kind: KindI32}, nil
}

// resolveArgTag resolves a call argument's pointer tag, following an
// interprocedural returnParamIdx forward through a nested call when the
// argument is itself `f(x)` and f is known to return one of its own
// parameters unchanged (spec section 4.3.2, sema.ScanReturnParamIdx).
func (fe *funcEmitter) resolveArgTag(arg ast.Expr) PointerTag {
	if t := fe.nameTag(arg); t != TagUnknown {
		return t
	}
	call, ok := arg.(*ast.Call)
	if !ok {
		return TagUnknown
	}
	name, ok := calleeName(call.Func)
	if !ok {
		return TagUnknown
	}
	rp, ok := fe.g.Analyzer.ReturnParam[name]
	if !ok || rp < 0 || rp >= len(call.Args) {
		return TagUnknown
	}
	return fe.resolveArgTag(call.Args[rp])
}

// evalIsinstance lowers isinstance() as a compile-time constant when the
// argument's static kind is already known (spec section 4.3.2): codegen
// runs after sema's type inference, so the runtime type test it would
// otherwise need has usually already been settled statically.
func (fe *funcEmitter) evalIsinstance(n *ast.Call) (Value, error) {
	if len(n.Args) != 2 {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "isinstance() takes exactly two arguments")
	}
	className, ok := calleeName(n.Args[1])
	if !ok {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "isinstance() second argument must be a class name")
	}
	tag := fe.resolveArgTag(n.Args[0])
	match := tag == TagObject && className != ""
	if match {
		return Value{Name: "true", Kind: KindI1}, nil
	}
	return Value{Name: "false", Kind: KindI1}, nil
}

// evalDirectCall lowers a direct call to a module-defined function,
// checking per-parameter kinds against the resolved signature before
// rendering the `call` instruction (spec section 4.3.2).
func (fe *funcEmitter) evalDirectCall(n *ast.Call, name string, sig *types.Signature) (Value, error) {
	if !sig.IsSimple() {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "call to %q uses a signature shape codegen does not lower (varargs/kwonly/defaults)", name)
	}
	if len(n.Args) != len(sig.SimpleParams) {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "call to %q passes %d arguments, expected %d", name, len(n.Args), len(sig.SimpleParams))
	}
	var argParts []string
	for i, a := range n.Args {
		v, err := fe.eval(a)
		if err != nil {
			return Value{}, err
		}
		wantKind, _ := maskToKind(sig.SimpleParams[i])
		if v.Kind != wantKind {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "argument %d to %q has the wrong kind", i, name)
		}
		argParts = append(argParts, fmt.Sprintf("%s %s", v.Kind.llvm(), v.Name))
	}
	retKind, retTag := maskToKind(sig.ReturnKind)
	call := fmt.Sprintf("call %s @%s(%s)", retKind.llvm(), name, strings.Join(argParts, ", "))
	if retKind == KindPtr && retTag == TagUnknown {
		if rp, ok := fe.g.Analyzer.ReturnParam[name]; ok && rp >= 0 && rp < len(n.Args) {
			retTag = fe.resolveArgTag(n.Args[rp])
		}
	}
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = %s\n", reg, call))
	return Value{Name: reg, Kind: retKind, Tag: retTag}, nil
}

func maskToKind(m types.Mask) (ValueKind, PointerTag) {
	tk, ok := m.Sole()
	if !ok {
		return KindPtr, TagUnknown
	}
	return valueKindOf(tk), pointerTagOf(tk)
}

// lookupStdlibShim finds the stdlibShim for a `module.attr(...)` call
// surfaced by sema's stdlib fast-path table (spec section 4.1.1 Call rule
// 2). Only a handful of module.attr pairs are recognized; anything else
// falls through to the "unresolved function" error in evalCall.
func (fe *funcEmitter) lookupStdlibShim(name string) (stdlibShim, bool) {
	shim, ok := knownStdlibShims[name]
	return shim, ok
}

// stdlibShim names the opaque runtime entry point a recognized
// `module.attr` surfaces to, and the ValueKind its call instruction
// lowers to.
type stdlibShim struct {
	runtimeFn string
	ret       ValueKind
	retTag    PointerTag
	wide      bool // runtime entry point is declared returning i64; truncate to i32
}

// knownStdlibShims binds the stdlib surface sema recognizes (spec section
// 4.1.1, 4.3's runtime C-ABI "stdlib shims" family) to the runtime entry
// points declared in runtime_decls.go. Keyed by the flattened
// `module_attr` form evalCall builds from a `module.attr(...)` callee.
var knownStdlibShims = map[string]stdlibShim{
	"subprocess_run":        {"stdlib_subprocess_run", KindPtr, TagObject, false},
	"subprocess_call":       {"stdlib_subprocess_call", KindI32, TagUnknown, false},
	"subprocess_check_call": {"stdlib_subprocess_check_call", KindI32, TagUnknown, false},
	"sys_platform":          {"stdlib_sys_platform", KindPtr, TagStr, false},
	"sys_version":           {"stdlib_sys_version", KindPtr, TagStr, false},
	"sys_maxsize":           {"stdlib_sys_maxsize", KindI32, TagUnknown, true},
	"json_dumps":            {"stdlib_json_dump_dict", KindPtr, TagStr, false},
	"struct_calcsize":       {"stdlib_struct_calcsize", KindI32, TagUnknown, true},
}

// evalStdlibCall lowers a recognized stdlib shim call. Arguments are
// passed through as opaque pointers; the shim owns argument marshaling on
// the runtime side (spec section 1: the stdlib shim is an external
// collaborator).
func (fe *funcEmitter) evalStdlibCall(n *ast.Call, name string, shim stdlibShim) (Value, error) {
	var argParts []string
	for _, a := range n.Args {
		v, err := fe.eval(a)
		if err != nil {
			return Value{}, err
		}
		argParts = append(argParts, fmt.Sprintf("ptr %s", fe.box(v)))
	}
	// A few runtime entry points are declared returning i64 regardless of
	// the shim's logical kind (e.g. size_t-shaped results); truncate those
	// back to i32 rather than widening every other shim's declaration.
	if shim.wide {
		wide := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call i64 @%s(%s)\n", wide, shim.runtimeFn, strings.Join(argParts, ", ")))
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = trunc i64 %s to i32\n", reg, wide))
		return Value{Name: reg, Kind: KindI32}, nil
	}
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call %s @%s(%s)\n", reg, shim.ret.llvm(), shim.runtimeFn, strings.Join(argParts, ", ")))
	return Value{Name: reg, Kind: shim.ret, Tag: shim.retTag}, nil
}
