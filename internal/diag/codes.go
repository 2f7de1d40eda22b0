// Package diag provides the centralized error-code taxonomy used across
// pycc's pipeline. Every phase reports through the same Diagnostic shape
// and the same phase-prefixed code registry, so downstream tooling can
// dispatch on a diagnostic's Code, and on the Phase that Lookup returns
// for it, without parsing message text (spec section 7).
package diag

// Error code constants, grouped by the phase that raises them. Phase
// prefixes mirror the taxonomy in spec.md section 7: SYN (pre-core,
// collected not raised here), TYP (sema), COD (codegen internal), TLC
// (toolchain driver), RTE (runtime).
const (
	// ============================================================
	// Sema / type errors (TYP###)
	// ============================================================

	// TYP001 indicates a binary/unary operator applied to operand kinds
	// it does not accept (spec section 4.1.1 Unary/Binary arithmetic).
	TYP001 = "TYP001"

	// TYP002 indicates a reference to a name with no binding in scope
	// (spec section 4.1.1 Name).
	TYP002 = "TYP002"

	// TYP003 indicates a call whose callee could not be resolved to any
	// signature (spec section 4.1.1 Call).
	TYP003 = "TYP003"

	// TYP004 indicates an argument/parameter mismatch during call-site
	// binding: wrong arity, unknown keyword, or a positional-only
	// parameter passed by keyword (spec section 4.1.1 Parameter binding).
	TYP004 = "TYP004"

	// TYP005 indicates a required parameter was never bound.
	TYP005 = "TYP005"

	// TYP006 indicates a return expression's kind does not match the
	// enclosing function's declared return kind (spec section 4.1.2
	// Return).
	TYP006 = "TYP006"

	// TYP007 indicates subscripting a base kind that does not support it
	// (e.g. Set, spec section 4.1.1 Subscript).
	TYP007 = "TYP007"

	// TYP008 indicates an ambiguous construct the analyzer refuses to
	// silently resolve (spec section 4.1.5).
	TYP008 = "TYP008"

	// TYP009 indicates an unknown attribute access on a class-typed base.
	TYP009 = "TYP009"

	// TYP010 indicates assignment to a subscript/attribute target whose
	// element/attribute kind is inconsistent with the stored value.
	TYP010 = "TYP010"

	// ============================================================
	// Codegen internal errors (COD###)
	// ============================================================

	// COD001 indicates an AST invariant codegen relies on was violated
	// (malformed input from a prior pass).
	COD001 = "COD001"

	// COD002 indicates an unhandled NodeKind reached a lowering switch.
	COD002 = "COD002"

	// COD003 indicates a pointer-tagged value was required but the
	// lowered value carried no recoverable tag.
	COD003 = "COD003"

	// ============================================================
	// Toolchain driver errors (TLC###)
	// ============================================================

	// TLC001 indicates the external IR optimizer exited non-zero.
	TLC001 = "TLC001"

	// TLC002 indicates the assembler/compiler stage exited non-zero.
	TLC002 = "TLC002"

	// TLC003 indicates the linker stage exited non-zero.
	TLC003 = "TLC003"

	// ============================================================
	// Runtime errors (RTE###)
	// ============================================================

	// RTE001 indicates an uncaught exception reached the process
	// boundary.
	RTE001 = "RTE001"

	// RTE002 indicates a channel type error: a mutable aggregate was
	// sent over a channel (spec section 4.4.6 Channels).
	RTE002 = "RTE002"

	// RTE003 indicates a dict `set` with a non-string key (spec section
	// 4.4.5 Dicts).
	RTE003 = "RTE003"

	// RTE004 indicates a decode error surfaced as an exception rather
	// than handled via the `errors` replacement flag (spec section 7).
	RTE004 = "RTE004"
)

// ErrorInfo is descriptive metadata about one error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every known code to its ErrorInfo.
var Registry = map[string]ErrorInfo{
	TYP001: {TYP001, "sema", "type", "Operator applied to incompatible operand kinds"},
	TYP002: {TYP002, "sema", "scope", "Undefined name"},
	TYP003: {TYP003, "sema", "call", "Unresolved call target"},
	TYP004: {TYP004, "sema", "call", "Argument/parameter mismatch"},
	TYP005: {TYP005, "sema", "call", "Missing required parameter"},
	TYP006: {TYP006, "sema", "type", "Return kind mismatch"},
	TYP007: {TYP007, "sema", "type", "Base kind is not subscriptable"},
	TYP008: {TYP008, "sema", "ambiguity", "Ambiguous construct"},
	TYP009: {TYP009, "sema", "attribute", "Unknown attribute"},
	TYP010: {TYP010, "sema", "type", "Incompatible assignment target"},

	COD001: {COD001, "codegen", "invariant", "AST invariant violated"},
	COD002: {COD002, "codegen", "dispatch", "Unhandled node kind"},
	COD003: {COD003, "codegen", "tag", "Missing pointer tag"},

	TLC001: {TLC001, "toolchain", "optimize", "IR optimizer failed"},
	TLC002: {TLC002, "toolchain", "compile", "Assemble/compile stage failed"},
	TLC003: {TLC003, "toolchain", "link", "Link stage failed"},

	RTE001: {RTE001, "runtime", "exception", "Uncaught exception"},
	RTE002: {RTE002, "runtime", "channel", "Channel type error"},
	RTE003: {RTE003, "runtime", "dict", "Non-string dict key"},
	RTE004: {RTE004, "runtime", "decode", "Decode error"},
}

// Lookup returns the ErrorInfo for a code, if registered.
func Lookup(code string) (ErrorInfo, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsSemaError reports whether code belongs to the sema phase.
func IsSemaError(code string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == "sema"
}

// IsCodegenError reports whether code belongs to the codegen phase.
func IsCodegenError(code string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == "codegen"
}

// IsToolchainError reports whether code belongs to the toolchain driver.
func IsToolchainError(code string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == "toolchain"
}

// IsRuntimeError reports whether code belongs to the runtime phase.
func IsRuntimeError(code string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == "runtime"
}
